package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/observability"
)

// ErrNotReady is returned by lookups before the first successful refresh.
var ErrNotReady = errors.New("no dataset loaded yet")

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 30 * time.Second
)

// DatasetSource loads the raw dataset.
type DatasetSource interface {
	Fetch(ctx context.Context) (domain.Dataset, error)
}

// LayoutBuilder derives a layout for one dataset version and option set.
type LayoutBuilder interface {
	Build(ds domain.Dataset, version uint64, opts domain.Options) (domain.LayoutResult, error)
}

// Publisher ships a derived snapshot downstream.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// State is the dataset and default layout produced by the last successful refresh.
type State struct {
	Dataset  domain.Dataset
	Version  uint64
	Snapshot domain.Snapshot
}

// Pipeline orchestrates the fetch-build-publish refresh loop.
type Pipeline struct {
	source    DatasetSource
	builder   LayoutBuilder
	publisher Publisher
	opts      domain.Options
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	state   atomic.Pointer[State]
	version atomic.Uint64
	ready   atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher sends every refreshed snapshot to pub.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithClock replaces the clock used for refresh and backoff timers.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline that rebuilds opts every interval.
func New(src DatasetSource, builder LayoutBuilder, opts domain.Options, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics, options ...Option) *Pipeline {
	p := &Pipeline{
		source:   src,
		builder:  builder,
		opts:     opts,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		metrics:  metrics,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// CheckReadiness returns nil once a dataset has been loaded and laid out.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded a dataset yet")
	}
	return nil
}

// Current returns the state from the last successful refresh.
func (p *Pipeline) Current() (*State, error) {
	st := p.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st, nil
}

// Options returns the default display options the pipeline refreshes with.
func (p *Pipeline) Options() domain.Options { return p.opts }

// Layout derives the current dataset under opts.
func (p *Pipeline) Layout(opts domain.Options) (domain.LayoutResult, error) {
	st, err := p.Current()
	if err != nil {
		return domain.LayoutResult{}, err
	}
	return p.builder.Build(st.Dataset, st.Version, opts)
}

// Run refreshes immediately and then every interval until the context is cancelled.
// Failed refreshes are retried with exponential backoff.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		if err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("refresh failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, p.clock, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, min(maxBackoff, p.interval))
			continue
		}

		backoff = initialBackoff
		if !sleepWithContext(ctx, p.clock, p.interval) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// Refresh runs one fetch-build-publish cycle. The new state is visible to
// lookups before publishing starts.
func (p *Pipeline) Refresh(ctx context.Context) error {
	ds, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.RefreshErrors.WithLabelValues("fetch").Inc()
		return fmt.Errorf("fetch dataset: %w", err)
	}

	version := p.version.Add(1)
	layout, err := p.builder.Build(ds, version, p.opts)
	if err != nil {
		p.metrics.RefreshErrors.WithLabelValues("build").Inc()
		return fmt.Errorf("build layout: %w", err)
	}

	st := &State{Dataset: ds, Version: version, Snapshot: domain.NewSnapshot(layout)}
	p.state.Store(st)
	p.ready.Store(true)
	p.metrics.Refreshes.Inc()
	p.metrics.RegionsDerived.Set(float64(len(layout.Regions)))
	p.metrics.DatasetDays.Set(float64(len(ds.Dates)))

	p.logger.Info("dataset refreshed",
		"version", version,
		"regions", len(layout.Regions),
		"days", len(ds.Dates),
		"uniform_max", layout.UniformMax,
	)

	if p.publisher == nil {
		return nil
	}
	if err := p.publisher.Publish(ctx, st.Snapshot); err != nil {
		p.metrics.RefreshErrors.WithLabelValues("publish").Inc()
		return fmt.Errorf("publish snapshot: %w", err)
	}
	p.metrics.MessagesProduced.Add(float64(len(layout.Regions)))
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
