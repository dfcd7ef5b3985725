package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/india-cartogram/internal/domain"
	"github.com/couchcryptid/india-cartogram/internal/observability"
	"github.com/couchcryptid/india-cartogram/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	ds    domain.Dataset
	err   error
	calls atomic.Int64
}

func (m *mockSource) Fetch(_ context.Context) (domain.Dataset, error) {
	m.calls.Add(1)
	if m.err != nil {
		return domain.Dataset{}, m.err
	}
	return m.ds, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, snap domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDataset has Delhi rising and Kerala falling over sixteen days.
func testDataset() domain.Dataset {
	const days = 16
	start := time.Date(2020, time.March, 14, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, days)
	dl := make([]*float64, days)
	kl := make([]*float64, days)
	for i := range days {
		dates[i] = start.AddDate(0, 0, i)
		up, down := float64(100+10*i), float64(500-10*i)
		dl[i], kl[i] = &up, &down
	}
	return domain.Dataset{
		Dates: dates,
		Regions: []domain.RawRegion{
			{Key: "DL", Reported: map[domain.Category][]*float64{domain.CategoryCases: dl}},
			{Key: "KL", Reported: map[domain.Category][]*float64{domain.CategoryCases: kl}},
		},
	}
}

func newTestPipeline(src pipeline.DatasetSource, opts ...pipeline.Option) *pipeline.Pipeline {
	metrics := newTestMetrics()
	builder := pipeline.NewBuilder(nil, metrics, discardLogger())
	return pipeline.New(src, builder, domain.NewOptions(), time.Minute, discardLogger(), metrics, opts...)
}

// --- tests ---

func TestPipeline_Refresh_HappyPath(t *testing.T) {
	src := &mockSource{ds: testDataset()}
	pub := &mockPublisher{}
	p := newTestPipeline(src, pipeline.WithPublisher(pub))

	require.Error(t, p.CheckReadiness(context.Background()))

	require.NoError(t, p.Refresh(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	st, err := p.Current()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Version)
	require.Len(t, st.Snapshot.Layout.Regions, 2)
	assert.Equal(t, "DL", st.Snapshot.Layout.Regions[0].Key)
	assert.Equal(t, domain.TrendRising, st.Snapshot.Layout.Regions[0].Trend)
	assert.Equal(t, 1, pub.count())
}

func TestPipeline_Current_BeforeRefresh(t *testing.T) {
	p := newTestPipeline(&mockSource{ds: testDataset()})

	_, err := p.Current()
	require.ErrorIs(t, err, pipeline.ErrNotReady)

	_, err = p.Layout(domain.NewOptions())
	require.ErrorIs(t, err, pipeline.ErrNotReady)
}

func TestPipeline_Layout_UsesRequestedOptions(t *testing.T) {
	p := newTestPipeline(&mockSource{ds: testDataset()})
	require.NoError(t, p.Refresh(context.Background()))

	layout, err := p.Layout(p.Options().With(domain.WithMode(domain.ModeSequential), domain.WithMobileCols(4)))
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSequential, layout.Mode)
	assert.Equal(t, 1, layout.Regions[0].Row)
	assert.Equal(t, 1, layout.Regions[0].Col)
	assert.Equal(t, 2, layout.Regions[1].Col)
}

func TestPipeline_Refresh_FetchError(t *testing.T) {
	src := &mockSource{err: errors.New("source offline")}
	p := newTestPipeline(src)

	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source offline")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Refresh_BuildErrorKeepsPreviousState(t *testing.T) {
	src := &mockSource{ds: testDataset()}
	p := newTestPipeline(src)
	require.NoError(t, p.Refresh(context.Background()))

	bad := testDataset()
	bad.Regions = append(bad.Regions, domain.RawRegion{Key: "ZZ", Reported: bad.Regions[0].Reported})
	src.ds = bad

	err := p.Refresh(context.Background())
	require.ErrorIs(t, err, domain.ErrUnknownRegion)

	st, err := p.Current()
	require.NoError(t, err)
	assert.Len(t, st.Snapshot.Layout.Regions, 2)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Refresh_PublishErrorStillServes(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	p := newTestPipeline(&mockSource{ds: testDataset()}, pipeline.WithPublisher(pub))

	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish snapshot")

	_, err = p.Current()
	assert.NoError(t, err)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	src := &mockSource{ds: testDataset()}
	p := newTestPipeline(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, int64(0), src.calls.Load())
}

func TestPipeline_Run_RefreshesEveryInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &mockSource{ds: testDataset()}
	p := newTestPipeline(src, pipeline.WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, int64(1), src.calls.Load())
	assert.NoError(t, p.CheckReadiness(ctx))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestPipeline_Run_BacksOffOnFailure(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &mockSource{err: errors.New("not yet")}
	p := newTestPipeline(src, pipeline.WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	// The second retry waits twice as long.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(200 * time.Millisecond)
	assert.Never(t, func() bool { return src.calls.Load() > 2 }, 50*time.Millisecond, 5*time.Millisecond)
	clock.Advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return src.calls.Load() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Error(t, p.CheckReadiness(context.Background()))
}
