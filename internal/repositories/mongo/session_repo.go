package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// casAttempts bounds the optimistic-concurrency retry loop in Update.
// Contention on one session is a handful of near-simultaneous requests
// at most, so a small bound is plenty.
const casAttempts = 8

type SessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{col: db.Collection("sessions")}
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
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) FindByShareToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, bson.M{"share_token": token}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update applies mutate to the current snapshot of the session and
// persists the result atomically with respect to other Updates on the
// same session id. Serialization uses a compare-and-swap on the version
// counter: the replace only matches while the version is unchanged since
// the read, and a lost race re-reads and re-applies the mutator. A
// mutator error aborts with no write. Updates on different ids never
// contend with each other.
func (r *SessionRepo) Update(ctx context.Context, sessionID string, mutate func(*models.Session) error) (*models.Session, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		cur, err := r.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		next := cur.Clone()
		if err := mutate(next); err != nil {
			return nil, err
		}
		next.UpdatedAt = time.Now().UTC()
		next.Version = cur.Version + 1

		res, err := r.col.ReplaceOne(ctx,
			bson.M{"session_id": sessionID, "version": cur.Version},
			next,
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 1 {
			return next, nil
		}
		// version moved underneath us; retry against a fresh snapshot
	}
	return nil, fmt.Errorf("session %s: update contention exceeded %d attempts", sessionID, casAttempts)
}
