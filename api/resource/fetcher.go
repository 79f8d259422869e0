package resource

import (
	"context"

	"github.com/ka2n/recview/api/cache"
	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/log"
	"github.com/morikuni/failure/v2"
	"golang.org/x/sync/singleflight"
)

// Outcome is the result of a single fetch.
type Outcome struct {
	Resource *Resource
	Err      error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithDispatcher sets the context Fetch callbacks run on. The default runs
// them on the worker goroutine.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(f *Fetcher) {
		f.dispatcher = d
	}
}

// WithDeduplication makes concurrent misses for the same locator share one
// retrieval and decode.
func WithDeduplication() Option {
	return func(f *Fetcher) {
		f.inflight = &singleflight.Group{}
	}
}

// Fetcher resolves locators to decoded resources, consulting the cache first.
type Fetcher struct {
	cache      *cache.Cache[*Resource]
	transport  Transport
	decoder    Decoder
	dispatcher dispatch.Dispatcher
	inflight   *singleflight.Group
}

// New creates a Fetcher. The cache is owned by the caller and may be shared
// between fetchers.
func New(c *cache.Cache[*Resource], t Transport, d Decoder, opts ...Option) *Fetcher {
	f := &Fetcher{
		cache:      c,
		transport:  t,
		decoder:    d,
		dispatcher: dispatch.Inline,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves loc on a new goroutine and hands the outcome to callback on
// the fetcher's dispatcher. callback is called exactly once, for cache hits too.
func (f *Fetcher) Fetch(ctx context.Context, loc *record.Locator, callback func(Outcome)) {
	go func() {
		res, err := f.Get(ctx, loc)
		f.dispatcher.Dispatch(func() {
			callback(Outcome{Resource: res, Err: err})
		})
	}()
}

// Get resolves loc synchronously.
func (f *Fetcher) Get(ctx context.Context, loc *record.Locator) (*Resource, error) {
	key := loc.String()
	if res, ok := f.cache.Get(key); ok {
		log.Debug("Resource cache hit", "url", key)
		return res, nil
	}

	if f.inflight == nil {
		return f.load(ctx, loc)
	}

	// The shared load outlives any single caller's cancellation.
	v, err, shared := f.inflight.Do(key, func() (any, error) {
		return f.load(context.WithoutCancel(ctx), loc)
	})
	if shared {
		log.Debug("Resource fetch shared", "url", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Resource), nil
}

func (f *Fetcher) load(ctx context.Context, loc *record.Locator) (*Resource, error) {
	key := loc.String()
	log.Debug("Resource cache miss", "url", key)

	data, err := f.transport.FetchBytes(ctx, loc.URL())
	if err != nil {
		log.Debug("Resource transport failed", "url", key, "error", err)
		return nil, failure.Translate(err, ErrTransport,
			failure.Message("Failed to load image"),
			failure.Context{"url": key},
		)
	}

	res, ok := f.decoder.Decode(data)
	if !ok || res == nil {
		log.Debug("Resource decode failed", "url", key, "bytes", len(data))
		return nil, failure.New(ErrDataCorrupted,
			failure.Message("Image data is corrupted"),
			failure.Context{"url": key},
		)
	}
	res.Locator = loc

	f.cache.Put(key, res)
	return res, nil
}
