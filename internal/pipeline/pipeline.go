package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/glacier-data-etl/internal/domain"
	"github.com/couchcryptid/glacier-data-etl/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

// ErrNotReady is returned by queries issued before the first successful load.
var ErrNotReady = errors.New("glacier catalog has not been loaded yet")

// BatchLoader writes glacier snapshots to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, snapshots []domain.GlacierSnapshot) error
}

// Options configures where tables are read from and how often they are reloaded.
type Options struct {
	PrimaryPath      string
	MassBalancePaths []string
	BatchSize        int
	ReloadInterval   time.Duration // 0 loads once
	Clock            clockwork.Clock
}

// Pipeline builds glacier collections from the configured tables, publishes
// them, and serves queries against the most recent one.
//
// Each load builds a new collection and swaps it in whole. A collection is
// never modified after it is published, so queries run without locking.
type Pipeline struct {
	reader  domain.TableReader
	loader  BatchLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options

	current atomic.Pointer[domain.GlacierCollection]
}

// New creates a Pipeline. Pass a nil loader to skip publishing snapshots.
func New(reader domain.TableReader, loader BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		reader:  reader,
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once a collection has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Collection returns the collection currently served, or ErrNotReady.
func (p *Pipeline) Collection() (*domain.GlacierCollection, error) {
	c := p.current.Load()
	if c == nil {
		return nil, ErrNotReady
	}
	return c, nil
}

// Run loads the catalog, retrying with exponential backoff until the first
// load succeeds, then reloads on every ReloadInterval tick until the context
// is cancelled. A failed reload keeps the previous collection.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"primary", p.opts.PrimaryPath,
		"mass_balance", p.opts.MassBalancePaths,
		"reload_interval", p.opts.ReloadInterval,
	)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		err := p.Load(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Error("initial load failed", "error", err, "retry_in", backoff)
		if !p.sleepWithContext(ctx, backoff) {
			return nil
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	if p.opts.ReloadInterval <= 0 {
		return nil
	}

	ticker := p.opts.Clock.NewTicker(p.opts.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := p.Load(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("reload failed, keeping previous catalog", "error", err)
			}
		}
	}
}

// Load reads the primary table, merges every mass-balance table in order,
// publishes the snapshots, and swaps the new collection in. On error the
// served collection is left unchanged.
func (p *Pipeline) Load(ctx context.Context) error {
	start := p.opts.Clock.Now()

	c, err := p.build(ctx)
	if err != nil {
		p.metrics.LoadErrors.Inc()
		return err
	}

	if err := p.publish(ctx, c); err != nil {
		p.metrics.LoadErrors.Inc()
		return err
	}

	p.current.Store(c)

	p.metrics.GlaciersLoaded.Set(float64(c.Len()))
	p.metrics.CatalogReady.Set(1)
	p.metrics.LastLoadTimestamp.Set(float64(c.UpdatedAt().Unix()))
	p.metrics.LoadDuration.Observe(p.opts.Clock.Since(start).Seconds())

	p.logger.Info("catalog loaded", "glaciers", c.Len(), "duration", p.opts.Clock.Since(start))
	return nil
}

func (p *Pipeline) build(ctx context.Context) (*domain.GlacierCollection, error) {
	c, err := domain.NewGlacierCollection(ctx, p.reader, p.opts.PrimaryPath)
	if err != nil {
		return nil, fmt.Errorf("load glaciers: %w", err)
	}

	for _, path := range p.opts.MassBalancePaths {
		res, err := c.ReadMassBalanceData(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("merge mass balance: %w", err)
		}
		p.metrics.MeasurementsMerged.Add(float64(res.Measurements))
		p.metrics.UnmatchedRows.Add(float64(res.Unmatched))
		p.logger.Info("mass balance merged",
			"path", path,
			"rows", res.Rows,
			"matched", res.Matched,
			"unmatched", res.Unmatched,
			"measurements", res.Measurements,
		)
	}
	return c, nil
}

// publish hands the collection's snapshots to the loader in BatchSize chunks.
func (p *Pipeline) publish(ctx context.Context, c *domain.GlacierCollection) error {
	if p.loader == nil {
		return nil
	}
	snapshots := c.Snapshots()
	for start := 0; start < len(snapshots); start += p.opts.BatchSize {
		end := min(start+p.opts.BatchSize, len(snapshots))
		if err := p.loader.LoadBatch(ctx, snapshots[start:end]); err != nil {
			return fmt.Errorf("publish snapshots: %w", err)
		}
		p.metrics.SnapshotsPublished.Add(float64(end - start))
	}
	return nil
}

// FilterByCode returns the names of glaciers whose code matches pattern.
func (p *Pipeline) FilterByCode(pattern string) ([]string, error) {
	c, err := p.Collection()
	if err != nil {
		return nil, err
	}
	p.metrics.QueriesServed.WithLabelValues("filter").Inc()
	return c.FilterByCode(pattern), nil
}

// Names returns every glacier name in collection order.
func (p *Pipeline) Names() ([]string, error) {
	c, err := p.Collection()
	if err != nil {
		return nil, err
	}
	p.metrics.QueriesServed.WithLabelValues("names").Inc()
	return c.Names(), nil
}

// Ranking returns snapshots of up to n glaciers ordered by latest mass balance.
func (p *Pipeline) Ranking(n int, reverse bool) ([]domain.GlacierSnapshot, error) {
	c, err := p.Collection()
	if err != nil {
		return nil, err
	}
	p.metrics.QueriesServed.WithLabelValues("ranking").Inc()

	ranked := c.SortByLatestMassBalance(n, reverse)
	out := make([]domain.GlacierSnapshot, len(ranked))
	for i, g := range ranked {
		out[i] = g.Snapshot(c.UpdatedAt())
	}
	return out, nil
}

// sleepWithContext waits on the pipeline clock so tests can drive the backoff.
func (p *Pipeline) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := p.opts.Clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
