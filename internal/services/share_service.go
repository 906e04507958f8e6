package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

// ShareView is the read-only slice of a completed session exposed to
// share-link holders. The token alone is the capability; no operator
// authentication is involved.
type ShareView struct {
	Mode         string          `json:"mode"`
	Role         string          `json:"role"`
	Level        string          `json:"level"`
	Report       json.RawMessage `json:"report"`
	ScoreSummary json.RawMessage `json:"score_summary,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

type ShareService interface {
	Resolve(ctx context.Context, token string) (*ShareView, error)
}

type shareService struct {
	store SessionStore
	audit *AuditRecorder
}

func NewShareService(store SessionStore, audit *AuditRecorder) ShareService {
	return &shareService{store: store, audit: audit}
}

// Resolve maps a token to the shared report view. An unknown token and a
// known token whose report is not ready are both plain NotFound: the
// response must not reveal whether the token exists.
func (s *shareService) Resolve(ctx context.Context, token string) (*ShareView, error) {
	const op = "ShareService.Resolve"

	if token == "" {
		return nil, utils.E(utils.CodeNotFound, op, "report not found", nil)
	}

	sess, err := s.store.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "report not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve share token", err)
	}
	if len(sess.Report) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, "report not found", nil)
	}

	s.audit.Record(ctx, models.AuditReportViewed, EntitySession, sess.SessionID, map[string]any{
		"via": "share_link",
	})

	return &ShareView{
		Mode:         sess.Mode,
		Role:         sess.Role,
		Level:        sess.Level,
		Report:       sess.Report,
		ScoreSummary: sess.ScoreSummary,
		CompletedAt:  sess.CompletedAt,
	}, nil
}
