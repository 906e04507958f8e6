package services

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/skillvue/skillvue-backend/internal/cache"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/providers/generator"
	memrepo "github.com/skillvue/skillvue-backend/internal/repositories/memory"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

// fakeAuditRepo collects entries in order so tests can assert on the
// ledger without a database.
type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	failing bool
}

func (f *fakeAuditRepo) Insert(ctx context.Context, e *models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errFakeAudit
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAuditRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AuditEntry
	for _, e := range f.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

var errFakeAudit = utils.E(utils.CodeInternal, "fakeAuditRepo", "insert refused", nil)

func logrusDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type testEnv struct {
	store *memrepo.SessionRepo
	cache *cache.MemoryCache
	audit *fakeAuditRepo
	svc   SessionService
}

func newTestEnv() *testEnv {
	store := memrepo.NewSessionRepo()
	c := cache.NewMemoryCache()
	auditRepo := &fakeAuditRepo{}

	gen := generator.NewStatic()
	svc := NewSessionService(store, c, NewAuditRecorder(auditRepo, logrusDiscard()), gen, gen)
	return &testEnv{store: store, cache: c, audit: auditRepo, svc: svc}
}

func (e *testEnv) startedSession(ctx context.Context) *models.Session {
	sess, err := e.svc.Create(ctx, CreateSessionInput{
		Mode:   models.ModeIndividual,
		Role:   "backend engineer",
		Level:  "mid",
		Skills: []string{"go", "sql"},
	})
	if err != nil {
		panic(err)
	}
	started, err := e.svc.Start(ctx, sess.SessionID)
	if err != nil {
		panic(err)
	}
	return started
}
