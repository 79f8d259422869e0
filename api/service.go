package api

import (
	"context"

	"github.com/ka2n/recview/api/aggregate"
	"github.com/ka2n/recview/api/cache"
	"github.com/ka2n/recview/api/dataset"
	"github.com/ka2n/recview/api/detail"
	"github.com/ka2n/recview/api/dispatch"
	"github.com/ka2n/recview/api/record"
	"github.com/ka2n/recview/api/resource"
	"github.com/ka2n/recview/config"
)

// Service owns the image cache and everything that reads through it.
// Create one per process.
type Service struct {
	Provider   dataset.Provider
	Cache      *cache.Cache[*resource.Resource]
	Fetcher    *resource.Fetcher
	Aggregator *aggregate.Aggregator
}

// NewService builds a Service from cfg. A nil transport selects the HTTP
// transport configured by cfg.Fetch.
func NewService(cfg *config.Config, transport resource.Transport) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if transport == nil {
		transport = resource.NewHTTPTransport(resource.HTTPConfig{
			Timeout:   cfg.Fetch.Timeout,
			MaxBytes:  cfg.Fetch.MaxBytes,
			UserAgent: cfg.Fetch.UserAgent,
		})
	}

	var opts []resource.Option
	if cfg.Fetch.Deduplicate {
		opts = append(opts, resource.WithDeduplication())
	}

	var provider dataset.Provider = dataset.Embedded()
	if cfg.Data != "" {
		provider = dataset.File(cfg.Data)
	}

	c := cache.New[*resource.Resource]()
	fetcher := resource.New(c, transport, resource.ImageDecoder{}, opts...)

	return &Service{
		Provider:   provider,
		Cache:      c,
		Fetcher:    fetcher,
		Aggregator: aggregate.New(fetcher),
	}
}

// Records loads and decodes the configured dataset. A dataset that cannot be
// loaded yields no records.
func (s *Service) Records() []record.Record {
	return dataset.LoadRecords(s.Provider)
}

// Detail fetches every image of rec and builds its detail page.
func (s *Service) Detail(ctx context.Context, rec record.Record) (detail.Detail, error) {
	return detail.Build(rec, s.Aggregator.FetchRecord(ctx, rec))
}

// StartDetail is the asynchronous form of Detail. callback runs on d.
func (s *Service) StartDetail(ctx context.Context, rec record.Record, d dispatch.Dispatcher, callback func(detail.Detail, error)) *aggregate.Run {
	return s.Aggregator.Start(ctx, rec.Images, d, func(result aggregate.Result) {
		callback(detail.Build(rec, result))
	})
}
