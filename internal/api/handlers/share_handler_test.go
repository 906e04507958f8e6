package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillvue/skillvue-backend/internal/cache"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/providers/generator"
	memrepo "github.com/skillvue/skillvue-backend/internal/repositories/memory"
	"github.com/skillvue/skillvue-backend/internal/services"
)

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(ctx context.Context, e *models.AuditEntry) error { return nil }
func (nopAuditRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]models.AuditEntry, error) {
	return nil, nil
}

func newShareRouter(t *testing.T) (*gin.Engine, services.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)
	audit := services.NewAuditRecorder(nopAuditRepo{}, log)

	store := memrepo.NewSessionRepo()
	gen := generator.NewStatic()
	sessionSvc := services.NewSessionService(store, cache.NewMemoryCache(), audit, gen, gen)
	shareSvc := services.NewShareService(store, audit)

	r := gin.New()
	r.GET("/share/:token", NewShareHandler(shareSvc).Resolve)
	return r, sessionSvc
}

func TestShareRoute_UnknownToken404(t *testing.T) {
	r, _ := newShareRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/bogus", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", string(body.Code))
}

func TestShareRoute_CompletedReport200(t *testing.T) {
	r, sessionSvc := newShareRouter(t)
	ctx := context.Background()

	sess, err := sessionSvc.Create(ctx, services.CreateSessionInput{
		Mode: models.ModeIndividual,
		Role: "backend engineer",
	})
	require.NoError(t, err)
	_, err = sessionSvc.Start(ctx, sess.SessionID)
	require.NoError(t, err)
	done, err := sessionSvc.Complete(ctx, sess.SessionID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/share/"+done.ShareToken, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data services.ShareView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ModeIndividual, body.Data.Mode)
	assert.NotEmpty(t, body.Data.Report)
}
