package resource

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ka2n/recview/api/cache"
	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/api/record"
	"github.com/morikuni/failure/v2"
	"go.uber.org/goleak"
)

// countingTransport serves fixed bytes and counts calls.
type countingTransport struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (c *countingTransport) FetchBytes(ctx context.Context, u *url.URL) ([]byte, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.data, nil
}

func TestFetcher_CacheHitSkipsTransport(t *testing.T) {
	loc := record.MustParseLocator("https://example.com/cached.png")
	c := cache.New[*Resource]()
	want := &Resource{Format: "png"}
	c.Put(loc.String(), want)

	transport := TransportFunc(func(ctx context.Context, u *url.URL) ([]byte, error) {
		t.Errorf("transport called for cached locator %s", u)
		return nil, errors.New("unexpected")
	})
	f := New(c, transport, ImageDecoder{})

	got, err := f.Get(context.Background(), loc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %p, want cached %p", got, want)
	}
}

func TestFetcher_MissPopulatesCache(t *testing.T) {
	loc := record.MustParseLocator("https://example.com/a.png")
	c := cache.New[*Resource]()
	transport := &countingTransport{data: pngBytes(t, 4, 3, color.White)}
	f := New(c, transport, ImageDecoder{})

	first, err := f.Get(context.Background(), loc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first.Format != "png" {
		t.Errorf("Format = %q, want png", first.Format)
	}
	if b := first.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("Bounds() = %v, want 4x3", b)
	}
	if first.Locator.String() != loc.String() {
		t.Errorf("Locator = %s, want %s", first.Locator, loc)
	}
	if _, ok := c.Get(loc.String()); !ok {
		t.Error("resource was not stored in cache")
	}

	second, err := f.Get(context.Background(), loc)
	if err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	if second != first {
		t.Error("second Get() did not return the cached resource")
	}
	if n := transport.calls.Load(); n != 1 {
		t.Errorf("transport called %d times, want 1", n)
	}
}

func TestFetcher_Errors(t *testing.T) {
	tests := []struct {
		name      string
		transport *countingTransport
		wantCode  ErrorCode
	}{
		{
			name:      "transport failure",
			transport: &countingTransport{err: errors.New("connection refused")},
			wantCode:  ErrTransport,
		},
		{
			name:      "corrupted data",
			transport: &countingTransport{data: []byte("definitely not an image")},
			wantCode:  ErrDataCorrupted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := record.MustParseLocator("https://example.com/broken.png")
			c := cache.New[*Resource]()
			f := New(c, tt.transport, ImageDecoder{})

			_, err := f.Get(context.Background(), loc)
			if err == nil {
				t.Fatal("Get() error = nil, want error")
			}
			if !failure.Is(err, tt.wantCode) {
				t.Errorf("Get() error = %v, want code %s", err, tt.wantCode)
			}
			if c.Len() != 0 {
				t.Errorf("cache has %d entries after failure, want 0", c.Len())
			}
		})
	}
}

func TestFetcher_OversizedImageIsTransportError(t *testing.T) {
	body := pngBytes(t, 8, 8, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	loc := record.MustParseLocator(srv.URL + "/big.png")
	c := cache.New[*Resource]()
	tr := NewHTTPTransport(HTTPConfig{MaxBytes: int64(len(body) / 2)})
	f := New(c, tr, ImageDecoder{})

	_, err := f.Get(context.Background(), loc)
	if !failure.Is(err, ErrTransport) {
		t.Errorf("Get() error = %v, want code %s", err, ErrTransport)
	}
	if failure.Is(err, ErrDataCorrupted) {
		t.Errorf("Get() error = %v, must not be %s", err, ErrDataCorrupted)
	}
	if c.Len() != 0 {
		t.Errorf("cache has %d entries after failure, want 0", c.Len())
	}
}

func TestFetcher_DecoderVerdict(t *testing.T) {
	data := []byte("raw")
	tests := []struct {
		name     string
		accept   bool
		wantCode ErrorCode
	}{
		{name: "accepted", accept: true},
		{name: "rejected", accept: false, wantCode: ErrDataCorrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := DecoderFunc(func(got []byte) (*Resource, bool) {
				if string(got) != string(data) {
					t.Errorf("decoder got %q, want %q", got, data)
				}
				if !tt.accept {
					return nil, false
				}
				return &Resource{Format: "raw", Size: len(got)}, true
			})
			loc := record.MustParseLocator("https://example.com/raw")
			f := New(cache.New[*Resource](), &countingTransport{data: data}, decoder)

			res, err := f.Get(context.Background(), loc)
			if tt.wantCode != "" {
				if !failure.Is(err, tt.wantCode) {
					t.Errorf("Get() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if res.Format != "raw" || res.Size != len(data) {
				t.Errorf("Get() = %+v", res)
			}
			if res.Locator == nil || !res.Locator.Equal(*loc) {
				t.Errorf("Locator = %v, want %s", res.Locator, loc)
			}
		})
	}
}

func TestFetcher_FetchDeliversOnDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := dispatch.NewQueue()
	defer q.Close()

	loc := record.MustParseLocator("https://example.com/a.png")
	c := cache.New[*Resource]()
	transport := &countingTransport{data: pngBytes(t, 1, 1, color.Black)}
	f := New(c, transport, ImageDecoder{}, WithDispatcher(q))

	// Miss then hit: both must arrive through the queue exactly once.
	for i := 0; i < 2; i++ {
		var calls atomic.Int32
		done := make(chan Outcome, 2)
		f.Fetch(context.Background(), loc, func(o Outcome) {
			calls.Add(1)
			done <- o
		})

		select {
		case o := <-done:
			if o.Err != nil {
				t.Fatalf("Fetch() outcome error = %v", o.Err)
			}
			if o.Resource == nil {
				t.Fatal("Fetch() outcome has no resource")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Fetch() callback was not invoked")
		}

		// Flush the queue before counting.
		flushed := make(chan struct{})
		q.Dispatch(func() { close(flushed) })
		<-flushed
		if n := calls.Load(); n != 1 {
			t.Errorf("callback invoked %d times, want 1", n)
		}
	}

	if n := transport.calls.Load(); n != 1 {
		t.Errorf("transport called %d times, want 1", n)
	}
}

func TestFetcher_NoDeduplicationByDefault(t *testing.T) {
	loc := record.MustParseLocator("https://example.com/a.png")
	data := pngBytes(t, 1, 1, color.White)

	// Both callers must be inside the transport at once; a deduplicating
	// fetcher would never let the second one in.
	var arrived sync.WaitGroup
	arrived.Add(2)
	transport := TransportFunc(func(ctx context.Context, u *url.URL) ([]byte, error) {
		arrived.Done()
		arrived.Wait()
		return data, nil
	})
	f := New(cache.New[*Resource](), transport, ImageDecoder{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Get(context.Background(), loc); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent misses did not both reach the transport")
	}
}

func TestFetcher_WithDeduplication(t *testing.T) {
	loc := record.MustParseLocator("https://example.com/a.png")
	data := pngBytes(t, 1, 1, color.White)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	transport := TransportFunc(func(ctx context.Context, u *url.URL) ([]byte, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return data, nil
	})
	f := New(cache.New[*Resource](), transport, ImageDecoder{}, WithDeduplication())

	const callers = 5
	results := make([]*Resource, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = f.Get(context.Background(), loc)
	}()
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = f.Get(context.Background(), loc)
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("transport called %d times, want 1", n)
	}
	for i, r := range results {
		if r == nil || r != results[0] {
			t.Errorf("results[%d] = %p, want shared %p", i, r, results[0])
		}
	}
}
