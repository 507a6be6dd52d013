package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/pkg/metrics"
)

const defaultMetricsUpdateInterval = 10 * time.Second

// snapshot is one published table. Readers load the pointer once per request
// so a page is always computed from a single table.
type snapshot struct {
	table       *model.Table
	version     uint64
	publishedAt time.Time
}

// SnapshotStore publishes immutable tables through an atomic pointer.
// Replacement is wait-free for readers.
type SnapshotStore struct {
	current atomic.Pointer[snapshot]
	version atomic.Uint64

	metricsUpdateInterval time.Duration
	stopChan              chan struct{}
	wg                    sync.WaitGroup
}

// NewSnapshotStore creates an empty store and starts its metrics updater.
// Call Close to stop it.
func NewSnapshotStore(ctx context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Snapshot implements Store.Snapshot.
func (s *SnapshotStore) Snapshot(_ context.Context) (*model.Table, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, ErrNoSnapshot
	}
	return cur.table, nil
}

// Current returns the published table together with its version, both read
// from the same snapshot.
func (s *SnapshotStore) Current(_ context.Context) (*model.Table, uint64, error) {
	cur := s.current.Load()
	if cur == nil {
		return nil, 0, ErrNoSnapshot
	}
	return cur.table, cur.version, nil
}

// Replace implements Store.Replace.
func (s *SnapshotStore) Replace(_ context.Context, tbl *model.Table) (uint64, error) {
	if tbl == nil {
		return 0, ErrNilTable
	}
	snap := &snapshot{table: tbl, version: s.version.Add(1), publishedAt: time.Now()}
	s.current.Store(snap)
	s.updateMetrics()
	return snap.version, nil
}

// Version implements Store.Version.
func (s *SnapshotStore) Version(_ context.Context) uint64 {
	if cur := s.current.Load(); cur != nil {
		return cur.version
	}
	return 0
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(_ context.Context) int {
	if cur := s.current.Load(); cur != nil {
		return cur.table.Len()
	}
	return 0
}

// PublishedAt returns when the current snapshot was published.
func (s *SnapshotStore) PublishedAt() time.Time {
	if cur := s.current.Load(); cur != nil {
		return cur.publishedAt
	}
	return time.Time{}
}

// Close stops the metrics updater.
func (s *SnapshotStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

func (s *SnapshotStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *SnapshotStore) updateMetrics() {
	cur := s.current.Load()
	if cur == nil {
		return
	}
	metrics.UpdateDatasetRecords(cur.table.Len())
	metrics.UpdateSnapshot(cur.version, cur.publishedAt.Unix())
}
