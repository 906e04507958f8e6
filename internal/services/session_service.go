package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/skillvue/skillvue-backend/internal/cache"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/providers/generator"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

// sessionCacheTTL is deliberately short: session state changes often and
// staleness is worse than a cache miss.
const sessionCacheTTL = 5 * time.Second

// SessionStore is the durable session store contract. Implemented by the
// Mongo repo (CAS on a version counter) and the in-memory repo (per-id
// mutex). Update must serialize read-modify-write per session id and
// must not write when the mutator errors or the id is absent.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Update(ctx context.Context, sessionID string, mutate func(*models.Session) error) (*models.Session, error)
	FindByShareToken(ctx context.Context, token string) (*models.Session, error)
}

type CreateSessionInput struct {
	Mode      string
	Role      string
	Level     string
	Skills    []string
	CollegeID string
	CreatedBy string
}

type SessionService interface {
	Create(ctx context.Context, in CreateSessionInput) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Start(ctx context.Context, sessionID string) (*models.Session, error)
	Advance(ctx context.Context, sessionID string) (int, error)
	Retreat(ctx context.Context, sessionID string) (int, error)
	Complete(ctx context.Context, sessionID string) (*models.Session, error)
	Touch(ctx context.Context, sessionID string) error
}

type sessionService struct {
	store     SessionStore
	cache     cache.Cache
	audit     *AuditRecorder
	questions generator.QuestionGenerator
	reports   generator.ReportGenerator
}

func NewSessionService(store SessionStore, c cache.Cache, audit *AuditRecorder, q generator.QuestionGenerator, r generator.ReportGenerator) SessionService {
	return &sessionService{store: store, cache: c, audit: audit, questions: q, reports: r}
}

func sessionCacheKey(sessionID string) string { return "session:" + sessionID }

func validMode(m string) bool {
	return m == models.ModeIndividual || m == models.ModeCompany || m == models.ModeCollege
}

func newShareToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *sessionService) Create(ctx context.Context, in CreateSessionInput) (*models.Session, error) {
	const op = "SessionService.Create"

	if !validMode(in.Mode) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "mode must be individual, company, or college", nil)
	}
	if in.Role == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role is required", nil)
	}

	now := time.Now().UTC()
	sess := &models.Session{
		SessionID:      uuid.NewString(),
		Mode:           in.Mode,
		Role:           in.Role,
		Level:          in.Level,
		Status:         models.StatusDraft,
		TopSkills:      in.Skills,
		LastActivityAt: now,
		CollegeID:      in.CollegeID,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	s.cacheSet(ctx, sess)
	s.audit.Record(ctx, models.AuditSessionCreated, EntitySession, sess.SessionID, map[string]any{
		"mode":    sess.Mode,
		"role":    sess.Role,
		"version": sess.Version,
	})
	return sess, nil
}

// Get is read-through cached: a hit inside the TTL returns the cached
// copy, anything else falls through to the store and repopulates.
func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	if s.cache != nil {
		var cached models.Session
		if hit, err := s.cache.GetJSON(ctx, sessionCacheKey(sessionID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}

	s.cacheSet(ctx, sess)
	return sess, nil
}

func (s *sessionService) Start(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Start"

	cur, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cur.CanTransition(models.StatusInProgress) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview can only be started from draft", nil)
	}

	set, err := s.questions.GenerateQuestions(ctx, generator.QuestionSpec{
		Mode:   cur.Mode,
		Role:   cur.Role,
		Level:  cur.Level,
		Skills: cur.TopSkills,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "question generation failed", err)
	}

	updated, err := s.update(ctx, op, sessionID, func(sess *models.Session) error {
		if !sess.CanTransition(models.StatusInProgress) {
			return utils.E(utils.CodeInvalidArgument, op, "interview can only be started from draft", nil)
		}
		sess.Status = models.StatusInProgress
		sess.Questions = set.Questions
		if len(set.TopSkills) > 0 {
			sess.TopSkills = set.TopSkills
		}
		sess.CurrentQuestionIndex = 0
		sess.LastActivityAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditInterviewStarted, EntitySession, sessionID, map[string]any{
		"question_count": len(updated.Questions),
		"version":        updated.Version,
	})
	return updated, nil
}

func (s *sessionService) Advance(ctx context.Context, sessionID string) (int, error) {
	return s.navigate(ctx, sessionID, +1)
}

func (s *sessionService) Retreat(ctx context.Context, sessionID string) (int, error) {
	return s.navigate(ctx, sessionID, -1)
}

// navigate moves the question pointer one step and clamps it into
// [0, len(questions)-1]. Stepping past either end is a quiet no-op, not
// an error, so repeated calls at the boundary are idempotent.
func (s *sessionService) navigate(ctx context.Context, sessionID string, step int) (int, error) {
	op := "SessionService.Advance"
	action := models.AuditQuestionAdvanced
	if step < 0 {
		op = "SessionService.Retreat"
		action = models.AuditQuestionNavigatedBack
	}

	if sessionID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	updated, err := s.update(ctx, op, sessionID, func(sess *models.Session) error {
		if !sess.Started() {
			return utils.E(utils.CodeNotStarted, op, "interview has not been started", nil)
		}
		sess.CurrentQuestionIndex += step
		sess.ClampIndex()
		sess.LastActivityAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return 0, err
	}

	// the session's version counter ties each entry to the exact mutation
	// it describes, so concurrent writers stay reconstructible even when
	// their inserts land out of order
	s.audit.Record(ctx, action, EntitySession, sessionID, map[string]any{
		"index":   updated.CurrentQuestionIndex,
		"version": updated.Version,
	})
	return updated.CurrentQuestionIndex, nil
}

func (s *sessionService) Complete(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Complete"

	cur, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cur.CanTransition(models.StatusCompleted) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "only an in-progress interview can be completed", nil)
	}

	eval, err := s.reports.GenerateReport(ctx, cur)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "report generation failed", err)
	}
	token, err := newShareToken()
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to mint share token", err)
	}

	updated, err := s.update(ctx, op, sessionID, func(sess *models.Session) error {
		if !sess.CanTransition(models.StatusCompleted) {
			return utils.E(utils.CodeInvalidArgument, op, "only an in-progress interview can be completed", nil)
		}
		now := time.Now().UTC()
		sess.Status = models.StatusCompleted
		sess.Report = eval.Report
		sess.ScoreSummary = eval.ScoreSummary
		sess.ShareToken = token
		sess.CompletedAt = &now
		sess.LastActivityAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditInterviewCompleted, EntitySession, sessionID, map[string]any{
		"version": updated.Version,
	})
	return updated, nil
}

// Touch records a liveness ping. Pings are not audited; they carry no
// interview state of their own.
func (s *sessionService) Touch(ctx context.Context, sessionID string) error {
	const op = "SessionService.Touch"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	_, err := s.update(ctx, op, sessionID, func(sess *models.Session) error {
		sess.LastActivityAt = time.Now().UTC()
		return nil
	})
	return err
}

// update wraps the store's read-modify-write, translates sentinel errors
// into AppErrors, and overwrites the cache entry with the new state so a
// read right after a transition never sees the old snapshot.
func (s *sessionService) update(ctx context.Context, op, sessionID string, mutate func(*models.Session) error) (*models.Session, error) {
	updated, err := s.store.Update(ctx, sessionID, mutate)
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			return nil, err
		}
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update session", err)
	}

	s.cacheSet(ctx, updated)
	return updated, nil
}

// cacheSet is best effort; the durable store stays the source of truth.
func (s *sessionService) cacheSet(ctx context.Context, sess *models.Session) {
	if s.cache == nil || sess == nil {
		return
	}
	_ = s.cache.SetJSON(ctx, sessionCacheKey(sess.SessionID), sess, sessionCacheTTL)
}
