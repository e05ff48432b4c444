package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNoSkillMatrix   = errors.New("no skill matrix data loaded")
	ErrEmployeeMissing = errors.New("employee not found")
)

// SnapshotCache is the optional second tier behind the in-memory store.
// Load returns (nil, nil) for an unknown session.
type SnapshotCache interface {
	Load(ctx context.Context, sessionID string) (*domain.SkillMatrixSnapshot, error)
	Save(ctx context.Context, snap *domain.SkillMatrixSnapshot) error
	LatestSession(ctx context.Context) (string, error)
}

// SkillMatrixStore keeps skill matrix uploads keyed by session. Snapshots
// are replaced whole, never mutated, so a reader either sees the old
// version or the new one.
type SkillMatrixStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.SkillMatrixSnapshot
	latest   string
	l2       SnapshotCache
	now      func() time.Time
}

func NewSkillMatrixStore(l2 SnapshotCache) *SkillMatrixStore {
	return &SkillMatrixStore{
		sessions: map[string]*domain.SkillMatrixSnapshot{},
		l2:       l2,
		now:      time.Now,
	}
}

// Put stores groups under sessionID, creating a session when the id is
// empty, and returns the new snapshot.
func (s *SkillMatrixStore) Put(ctx context.Context, sessionID, source string, groups []domain.SheetGroup) (*domain.SkillMatrixSnapshot, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	prev := 0
	if cur, err := s.lookup(ctx, sessionID); err == nil {
		prev = cur.Version
	}

	s.mu.Lock()
	if cur, ok := s.sessions[sessionID]; ok && cur.Version > prev {
		prev = cur.Version
	}
	snap := &domain.SkillMatrixSnapshot{
		SessionID: sessionID,
		Version:   prev + 1,
		LoadedAt:  s.now().UTC(),
		Source:    source,
		Groups:    groups,
	}
	s.sessions[sessionID] = snap
	s.latest = sessionID
	s.mu.Unlock()

	if s.l2 != nil {
		if err := s.l2.Save(ctx, snap); err != nil {
			slog.Warn("skill matrix cache save failed", "session", sessionID, "error", err)
		}
	}
	slog.Info("skill matrix stored", "session", sessionID, "version", snap.Version, "sheets", len(groups), "records", domain.CountRecords(groups))
	return snap, nil
}

// Get returns the snapshot for sessionID, or the most recent upload when
// sessionID is empty.
func (s *SkillMatrixStore) Get(ctx context.Context, sessionID string) (*domain.SkillMatrixSnapshot, error) {
	if sessionID == "" {
		s.mu.RLock()
		sessionID = s.latest
		s.mu.RUnlock()
	}
	if sessionID == "" && s.l2 != nil {
		id, err := s.l2.LatestSession(ctx)
		if err != nil {
			slog.Warn("skill matrix cache latest lookup failed", "error", err)
		}
		sessionID = id
	}
	if sessionID == "" {
		return nil, ErrNoSkillMatrix
	}
	return s.lookup(ctx, sessionID)
}

func (s *SkillMatrixStore) lookup(ctx context.Context, sessionID string) (*domain.SkillMatrixSnapshot, error) {
	s.mu.RLock()
	snap, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}
	if s.l2 == nil {
		return nil, ErrNoSkillMatrix
	}

	snap, err := s.l2.Load(ctx, sessionID)
	if err != nil {
		slog.Warn("skill matrix cache load failed", "session", sessionID, "error", err)
		return nil, ErrNoSkillMatrix
	}
	if snap == nil {
		return nil, ErrNoSkillMatrix
	}

	s.mu.Lock()
	if cur, ok := s.sessions[sessionID]; !ok || cur.Version < snap.Version {
		s.sessions[sessionID] = snap
	}
	snap = s.sessions[sessionID]
	s.mu.Unlock()
	return snap, nil
}

func (s *SkillMatrixStore) SearchByID(ctx context.Context, sessionID string, id int) ([]map[string]interface{}, error) {
	snap, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := domain.FindByID(snap.Groups, id)
	if len(out) == 0 {
		return nil, fmt.Errorf("no employee found with ID %d: %w", id, ErrEmployeeMissing)
	}
	return out, nil
}

func (s *SkillMatrixStore) SearchByName(ctx context.Context, sessionID, first, last string) ([]map[string]interface{}, error) {
	snap, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.FindByName(snap.Groups, first, last), nil
}

func (s *SkillMatrixStore) Employees(ctx context.Context, sessionID string) ([]domain.EmployeeInfo, error) {
	snap, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.Employees(snap.Groups), nil
}
