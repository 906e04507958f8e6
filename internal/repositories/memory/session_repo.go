package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

// SessionRepo is an in-process session store with the same contract as
// the Mongo-backed repo. It backs local development when MONGO_URI is
// unset, and the service-layer tests. Read-modify-write on a given id is
// serialized with a per-id mutex so concurrent mutators never lose
// updates; different ids never block each other.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		sessions: make(map[string]*models.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (r *SessionRepo) keyLock(sessionID string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[sessionID] = l
	}
	return l
}

func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	if s.Version == 0 {
		s.Version = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s.Clone()
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *SessionRepo) FindByShareToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.ShareToken != "" && s.ShareToken == token {
			return s.Clone(), nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *SessionRepo) Update(ctx context.Context, sessionID string, mutate func(*models.Session) error) (*models.Session, error) {
	l := r.keyLock(sessionID)
	l.Lock()
	defer l.Unlock()

	r.mu.RLock()
	cur, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, utils.ErrNotFound
	}

	next := cur.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	next.Version = cur.Version + 1

	r.mu.Lock()
	r.sessions[sessionID] = next
	r.mu.Unlock()
	return next.Clone(), nil
}
