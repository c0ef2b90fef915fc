package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickdash/internal/domain"
	"quickdash/internal/eventbus"
	"quickdash/internal/sources"
)

type fakeProvider struct {
	kind domain.ResultKind

	mu      sync.Mutex
	results map[string][]domain.SearchResult
	err     error
	gate    chan struct{} // when set, Search blocks until closed
}

func newFakeProvider(kind domain.ResultKind) *fakeProvider {
	return &fakeProvider{kind: kind, results: make(map[string][]domain.SearchResult)}
}

func (p *fakeProvider) Kind() domain.ResultKind { return p.kind }

func (p *fakeProvider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	p.mu.Lock()
	gate := p.gate
	err := p.err
	results := p.results[query]
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (p *fakeProvider) set(query string, results ...domain.SearchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results[query] = results
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type fakeDisk struct {
	mu        sync.Mutex
	available bool
	batches   []domain.BatchEvent
	final     []domain.SearchResult
	total     int
	err       error
}

func (d *fakeDisk) Status(ctx context.Context) domain.SourceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return domain.SourceStatus{Available: d.available}
}

func (d *fakeDisk) Search(ctx context.Context, requestID, query string, out chan<- domain.BatchEvent) ([]domain.SearchResult, int, error) {
	d.mu.Lock()
	batches := d.batches
	final := d.final
	total := d.total
	err := d.err
	d.mu.Unlock()

	if err != nil {
		return nil, 0, err
	}
	for _, b := range batches {
		b.RequestID = requestID
		out <- b
	}
	return final, total, nil
}

func (d *fakeDisk) Launch(ctx context.Context, path string) error { return nil }
func (d *fakeDisk) Reveal(ctx context.Context, path string) error { return nil }

func newTestCoordinator(t *testing.T, disk sources.DiskSearcher) *Coordinator {
	t.Helper()
	log := zap.NewNop().Sugar()
	return NewCoordinator(context.Background(), log, eventbus.New(log), disk)
}

func appResult(path string) domain.SearchResult {
	return domain.SearchResult{Kind: domain.KindApp, DisplayName: path, Path: path}
}

func TestCoordinatorCollectsProviderResults(t *testing.T) {
	t.Parallel()
	apps := newFakeProvider(domain.KindApp)
	apps.set("ed", appResult("/apps/editor"))

	c := newTestCoordinator(t, nil)
	c.Register(apps)
	c.Search("ed")

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Sets[domain.KindApp]) == 1
	}, time.Second, 5*time.Millisecond)

	snap := c.Snapshot()
	require.Equal(t, "ed", snap.Query)
	require.Equal(t, "/apps/editor", snap.Sets[domain.KindApp][0].Path)
}

func TestCoordinatorLastQueryWins(t *testing.T) {
	t.Parallel()
	slow := newFakeProvider(domain.KindApp)
	gate := make(chan struct{})
	slow.gate = gate
	slow.set("old", appResult("/stale"))
	slow.set("new", appResult("/fresh"))

	c := newTestCoordinator(t, nil)
	c.Register(slow)

	c.Search("old")
	c.Search("new")

	// Release both in-flight calls; only the latest may land
	close(gate)

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Sets[domain.KindApp]) == 1
	}, time.Second, 5*time.Millisecond)

	// Give the stale goroutine a chance to misbehave
	time.Sleep(50 * time.Millisecond)
	snap := c.Snapshot()
	require.Equal(t, "/fresh", snap.Sets[domain.KindApp][0].Path,
		"Superseded request must not overwrite newer results")
}

func TestCoordinatorClearWipesState(t *testing.T) {
	t.Parallel()
	apps := newFakeProvider(domain.KindApp)
	apps.set("ed", appResult("/apps/editor"))

	c := newTestCoordinator(t, nil)
	c.Register(apps)
	c.Search("ed")

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sets[domain.KindApp]) == 1
	}, time.Second, 5*time.Millisecond)

	c.Clear()
	snap := c.Snapshot()
	require.Empty(t, snap.Query)
	require.Empty(t, snap.Sets)
	require.Empty(t, snap.Disk)
}

func TestCoordinatorKeepsAppsOnFailure(t *testing.T) {
	t.Parallel()
	apps := newFakeProvider(domain.KindApp)
	apps.set("ed", appResult("/apps/editor"))

	c := newTestCoordinator(t, nil)
	c.Register(apps)
	c.Search("ed")

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sets[domain.KindApp]) == 1
	}, time.Second, 5*time.Millisecond)

	apps.fail(context.DeadlineExceeded)
	c.Search("edi")

	require.Eventually(t, func() bool {
		return len(c.FailedSources()) == 1
	}, time.Second, 5*time.Millisecond)

	snap := c.Snapshot()
	require.Len(t, snap.Sets[domain.KindApp], 1, "Apps keep the last good results on failure")
}

func TestCoordinatorDropsFoldersOnFailure(t *testing.T) {
	t.Parallel()
	folders := newFakeProvider(domain.KindSystemFolder)
	folders.set("d", domain.SearchResult{Kind: domain.KindSystemFolder, Path: "/home/u/Downloads"})

	c := newTestCoordinator(t, nil)
	c.Register(folders)
	c.Search("d")

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sets[domain.KindSystemFolder]) == 1
	}, time.Second, 5*time.Millisecond)

	folders.fail(context.DeadlineExceeded)
	c.Search("do")

	require.Eventually(t, func() bool {
		return len(c.Snapshot().Sets[domain.KindSystemFolder]) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCoordinatorDiskStreamAndFinalize(t *testing.T) {
	t.Parallel()
	disk := &fakeDisk{
		available: true,
		batches: []domain.BatchEvent{
			{Results: diskResults("/d/1", "/d/2"), TotalCount: 3, CurrentCount: 2},
		},
		final: diskResults("/d/1", "/d/2", "/d/3"),
		total: 3,
	}

	c := newTestCoordinator(t, disk)
	c.Search("d")

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.DiskFinal && len(snap.Disk) == 3
	}, time.Second, 5*time.Millisecond)

	snap := c.Snapshot()
	require.Equal(t, 3, snap.DiskTotal)
	require.Equal(t, []string{"/d/1", "/d/2", "/d/3"}, paths(snap.Disk))
}

func TestCoordinatorDiskUnavailableSuppressesCalls(t *testing.T) {
	t.Parallel()
	disk := &fakeDisk{available: false, err: sources.ErrUnavailable}

	c := newTestCoordinator(t, disk)
	c.Search("x")

	require.Eventually(t, func() bool {
		return c.Snapshot().DiskOff
	}, time.Second, 5*time.Millisecond, "Unavailable failure re-probes and flips the flag")

	require.False(t, c.DiskEnabled())
}

func TestCoordinatorRegisterMultipleKinds(t *testing.T) {
	t.Parallel()
	detector := newFakeProvider(domain.KindURL)
	detector.set("example.com",
		domain.SearchResult{Kind: domain.KindURL, Path: "https://example.com"},
		domain.SearchResult{Kind: domain.KindMemo, Path: "memo://1"},
	)

	c := newTestCoordinator(t, nil)
	c.Register(detector, domain.KindURL, domain.KindMemo)
	c.Search("example.com")

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return len(snap.Sets[domain.KindURL]) == 1 && len(snap.Sets[domain.KindMemo]) == 1
	}, time.Second, 5*time.Millisecond, "One provider may own several result kinds")
}
