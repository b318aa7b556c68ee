package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
)

// CountFailed marks an entity whose count query failed.
const CountFailed = "count failed"

// Default collection limits.
const (
	DefaultCollectTimeout = 5 * time.Second
	DefaultConcurrency    = 4
)

// Connectivity is what a data source reports about its own reachability.
// Implementations report failure in Err rather than returning an error.
type Connectivity struct {
	Connected bool
	Host      string
	Database  string
	Err       error
}

// DataSource is the data store the status panel reports on.
type DataSource interface {
	// Connectivity must not fail; problems are reported in the result.
	Connectivity(ctx context.Context) Connectivity
	// Entities lists the countable entities. Empty when unknown.
	Entities(ctx context.Context) ([]string, error)
	// Count returns the number of records in one entity.
	Count(ctx context.Context, name string) (int64, error)
}

// CacheProbe is an optional cache whose reachability is shown on the panel.
type CacheProbe interface {
	Addr() string
	Ping(ctx context.Context) error
}

// EntityCount is the count for one entity, or a failure marker.
type EntityCount struct {
	Name   string `json:"name"`
	Count  int64  `json:"count"`
	Failed bool   `json:"failed,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// CacheStatus is the result of pinging the cache.
type CacheStatus struct {
	Addr      string `json:"addr"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// StatusRecord is one point-in-time capture of data store status. It is
// never mutated after Collect returns it.
type StatusRecord struct {
	Connected   bool          `json:"connected"`
	Host        string        `json:"host"`
	Database    string        `json:"database"`
	Entities    []EntityCount `json:"entities"`
	Error       string        `json:"error,omitempty"`
	Cache       *CacheStatus  `json:"cache,omitempty"`
	CollectedAt time.Time     `json:"collected_at"`
}

// Snapshotter produces status records.
type Snapshotter interface {
	Collect(ctx context.Context) StatusRecord
}

// Collector gathers a StatusRecord from a DataSource.
type Collector struct {
	source      DataSource
	cache       CacheProbe
	timeout     time.Duration
	concurrency int
	log         logger.Logger
	now         func() time.Time
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCache adds a cache ping to every snapshot.
func WithCache(c CacheProbe) CollectorOption {
	return func(col *Collector) { col.cache = c }
}

// WithTimeout bounds a whole Collect call.
func WithTimeout(d time.Duration) CollectorOption {
	return func(col *Collector) {
		if d > 0 {
			col.timeout = d
		}
	}
}

// WithConcurrency limits how many count queries run at once.
func WithConcurrency(n int) CollectorOption {
	return func(col *Collector) {
		if n > 0 {
			col.concurrency = n
		}
	}
}

// WithLogger sets the logger used for recovered failures.
func WithLogger(l logger.Logger) CollectorOption {
	return func(col *Collector) {
		if l != nil {
			col.log = l
		}
	}
}

// NewCollector creates a collector over source.
func NewCollector(source DataSource, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:      source,
		timeout:     DefaultCollectTimeout,
		concurrency: DefaultConcurrency,
		log:         logger.Noop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect queries connectivity and then counts every entity. It never
// fails: a connectivity failure yields Connected=false with an error
// message, and a failed count marks only that entity.
//
// The cache is pinged alongside the data store, each under its own
// timeout, so a slow cache never eats into the data store's budget.
func (c *Collector) Collect(ctx context.Context) StatusRecord {
	rec := StatusRecord{CollectedAt: c.now()}

	var g errgroup.Group
	if c.cache != nil {
		g.Go(func() error {
			rec.Cache = c.pingCache(ctx)
			return nil
		})
	}
	g.Go(func() error {
		c.collectSource(ctx, &rec)
		return nil
	})
	_ = g.Wait()

	return rec
}

// collectSource fills the data store fields of rec.
func (c *Collector) collectSource(ctx context.Context, rec *StatusRecord) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.source == nil {
		rec.Error = "no data source configured"
		return
	}

	conn := c.source.Connectivity(ctx)
	rec.Host = conn.Host
	rec.Database = conn.Database
	if !conn.Connected {
		if conn.Err != nil {
			rec.Error = errors.Brief(conn.Err)
		} else {
			rec.Error = "not connected"
		}
		c.log.Warn("data source unreachable: %s", rec.Error)
		return
	}
	rec.Connected = true

	names, err := c.source.Entities(ctx)
	if err != nil {
		c.log.Warn("listing entities failed: %s", errors.Brief(err))
		names = nil
	}

	rec.Entities = c.countAll(ctx, names)
}

// countAll counts entities concurrently and keeps them in input order.
func (c *Collector) countAll(ctx context.Context, names []string) []EntityCount {
	counts := make([]EntityCount, len(names))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, name := range names {
		g.Go(func() error {
			n, err := c.source.Count(ctx, name)
			if err != nil {
				c.log.Warn("counting %s failed: %s", name, errors.Brief(err))
				counts[i] = EntityCount{Name: name, Failed: true, Reason: CountFailed}
				return nil
			}
			counts[i] = EntityCount{Name: name, Count: n}
			return nil
		})
	}
	_ = g.Wait()

	return counts
}

func (c *Collector) pingCache(ctx context.Context) *CacheStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	st := &CacheStatus{Addr: c.cache.Addr()}
	if err := c.cache.Ping(ctx); err != nil {
		st.Error = errors.Brief(err)
		c.log.Warn("cache %s unreachable: %s", st.Addr, st.Error)
		return st
	}
	st.Connected = true
	return st
}

// Redacted returns a copy of rec with credentials masked in its error
// text. rec itself is left untouched.
func Redacted(rec StatusRecord) StatusRecord {
	rec.Error = errors.Redact(rec.Error)
	if rec.Cache != nil {
		c := *rec.Cache
		c.Error = errors.Redact(c.Error)
		rec.Cache = &c
	}
	return rec
}
