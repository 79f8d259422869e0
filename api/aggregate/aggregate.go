// Package aggregate fetches every image of a record concurrently and reports a
// single all-or-nothing result.
package aggregate

import (
	"context"
	"errors"
	"sync"

	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/api/resource"
	"github.com/ka2n/recview/log"
	"golang.org/x/sync/errgroup"
)

// Getter resolves one locator. *resource.Fetcher implements it.
type Getter interface {
	Get(ctx context.Context, loc *record.Locator) (*resource.Resource, error)
}

// State is the lifecycle of an aggregation run.
type State int

const (
	StateIdle State = iota
	StatePending
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the combined outcome of one run.
type Result struct {
	// Resources holds successful fetches by slot.
	Resources [record.SlotCount]*resource.Resource
	// Errors holds failures in completion order.
	Errors []error
}

// State is StateFailed when any fetch failed, even if others succeeded.
func (r Result) State() State {
	if len(r.Errors) > 0 {
		return StateFailed
	}
	return StateComplete
}

// Complete reports whether every requested fetch succeeded.
func (r Result) Complete() bool {
	return r.State() == StateComplete
}

// Err joins the collected errors, or returns nil.
func (r Result) Err() error {
	return errors.Join(r.Errors...)
}

// Aggregator fans out one fetch per locator and joins them.
type Aggregator struct {
	getter Getter
}

// New creates an Aggregator.
func New(g Getter) *Aggregator {
	return &Aggregator{getter: g}
}

// FetchAll fetches every non-nil locator concurrently and returns once all
// of them have finished. There is no timeout besides ctx.
func (a *Aggregator) FetchAll(ctx context.Context, locs [record.SlotCount]*record.Locator) Result {
	return a.fetchAll(ctx, locs, func() {})
}

// FetchRecord is FetchAll over the record's image slots.
func (a *Aggregator) FetchRecord(ctx context.Context, rec record.Record) Result {
	return a.FetchAll(ctx, rec.Images)
}

func (a *Aggregator) fetchAll(ctx context.Context, locs [record.SlotCount]*record.Locator, fetched func()) Result {
	var (
		mu     sync.Mutex
		result Result
	)

	// Tasks never return errors, so one failure does not cancel the others.
	var g errgroup.Group
	for i, loc := range locs {
		if loc == nil {
			continue
		}
		slot := record.Slot(i)
		g.Go(func() error {
			res, err := a.getter.Get(ctx, loc)

			mu.Lock()
			if err != nil {
				log.Debug("Slot fetch failed", "slot", slot, "url", loc.String(), "error", err)
				result.Errors = append(result.Errors, err)
			} else {
				result.Resources[slot] = res
			}
			mu.Unlock()

			fetched()
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("Record fetch finished", "state", result.State(), "errors", len(result.Errors))
	return result
}

// Run tracks an asynchronous aggregation started by Start.
type Run struct {
	mu        sync.Mutex
	state     State
	remaining int
	result    Result
	done      chan struct{}
}

// Start runs FetchAll on a new goroutine. callback is invoked exactly once,
// on d, after every fetch has finished. A dispatch.Queue closed before then
// runs callback on the fetching goroutine.
func (a *Aggregator) Start(ctx context.Context, locs [record.SlotCount]*record.Locator, d dispatch.Dispatcher, callback func(Result)) *Run {
	run := &Run{
		state: StatePending,
		done:  make(chan struct{}),
	}
	for _, loc := range locs {
		if loc != nil {
			run.remaining++
		}
	}

	go func() {
		result := a.fetchAll(ctx, locs, run.fetched)
		run.settle(result)
		d.Dispatch(func() {
			callback(result)
		})
		close(run.done)
	}()

	return run
}

func (r *Run) fetched() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining--
}

func (r *Run) settle(result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = result
	r.state = result.State()
}

// State returns the current state of the run.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Remaining returns the number of fetches that have not finished yet.
func (r *Run) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Wait blocks until the run has finished and its callback has been handed to
// the dispatcher, then returns the result.
func (r *Run) Wait() Result {
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}
