// Package snapshot keeps a read-consistent, fully materialized copy of the
// directory for the matching core. Searches always score one snapshot, never a
// mix of old and new rows.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

// Snapshot is immutable once published. Version counts loads within this
// process; ID is unique across processes and is what shared caches key on.
type Snapshot struct {
	Members       []*models.NetworkMember
	Organizations []*models.Organization
	Projects      []*models.Project
	ID            string
	Version       uint64
	LoadedAt      time.Time
}

// Collections exposes the snapshot to the aggregator.
func (s *Snapshot) Collections() match.Collections {
	return match.Collections{
		Members:       s.Members,
		Projects:      s.Projects,
		Organizations: s.Organizations,
	}
}

type Store struct {
	dir     repository.Directory
	logger  *slog.Logger
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	stale   atomic.Bool
	version uint64
}

func NewStore(dir repository.Directory, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Get returns the current snapshot, loading it on first use or after
// MarkStale. When a reload fails and an older snapshot exists, the older one
// is served.
func (s *Store) Get(ctx context.Context) (*Snapshot, error) {
	if cur := s.current.Load(); cur != nil && !s.stale.Load() {
		return cur, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.current.Load(); cur != nil && !s.stale.Load() {
		return cur, nil
	}

	snap, err := s.load(ctx)
	if err != nil {
		if cur := s.current.Load(); cur != nil {
			s.logger.Warn("snapshot reload failed, serving previous version", "version", cur.Version, "error", err)
			return cur, nil
		}
		return nil, err
	}
	return snap, nil
}

// Reload rebuilds the snapshot unconditionally.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// MarkStale makes the next Get rebuild the snapshot.
func (s *Store) MarkStale() {
	s.stale.Store(true)
}

// Current returns the published snapshot without loading. It is nil before
// the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// load must be called with mu held.
func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	// writes landing during the load mark the store stale again
	s.stale.Store(false)

	members, err := s.dir.ListAllMembers(ctx)
	if err != nil {
		s.stale.Store(true)
		return nil, fmt.Errorf("load members: %w", err)
	}
	orgs, err := s.dir.ListAllOrganizations(ctx)
	if err != nil {
		s.stale.Store(true)
		return nil, fmt.Errorf("load organizations: %w", err)
	}
	projects, err := s.dir.ListAllProjects(ctx)
	if err != nil {
		s.stale.Store(true)
		return nil, fmt.Errorf("load projects: %w", err)
	}

	s.version++
	snap := &Snapshot{
		Members:       members,
		Organizations: orgs,
		Projects:      projects,
		ID:            uuid.NewString(),
		Version:       s.version,
		LoadedAt:      time.Now().UTC(),
	}
	s.current.Store(snap)
	s.logger.Debug("snapshot loaded", "id", snap.ID, "version", snap.Version,
		"members", len(members), "organizations", len(orgs), "projects", len(projects))
	return snap, nil
}
