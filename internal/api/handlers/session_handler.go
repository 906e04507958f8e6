package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/services"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

type SessionHandler struct {
	svc services.SessionService
}

func NewSessionHandler(svc services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type CreateSessionRequest struct {
	Mode   string   `json:"mode" binding:"required"` // individual|company|college
	Role   string   `json:"role" binding:"required"`
	Level  string   `json:"level"`
	Skills []string `json:"skills"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	op, ok := requireOperator(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Create", "invalid request body", err))
		return
	}

	sess, err := h.svc.Create(c.Request.Context(), services.CreateSessionInput{
		Mode:      req.Mode,
		Role:      req.Role,
		Level:     req.Level,
		Skills:    req.Skills,
		CollegeID: op.CollegeID,
		CreatedBy: op.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, sess, "session created")
}

func (h *SessionHandler) Get(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	sess, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, sess, "")
}

func (h *SessionHandler) Start(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, sess, "interview started")
}

type navigationResponse struct {
	CurrentQuestionIndex int `json:"current_question_index"`
}

func (h *SessionHandler) Advance(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	idx, err := h.svc.Advance(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, navigationResponse{CurrentQuestionIndex: idx}, "")
}

func (h *SessionHandler) Retreat(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	idx, err := h.svc.Retreat(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, navigationResponse{CurrentQuestionIndex: idx}, "")
}

// CompleteSessionResponse adds the minted share token to the completed
// session. The token is only ever returned here; session reads keep it
// hidden so holding a session id does not grant report access.
type CompleteSessionResponse struct {
	*models.Session
	ShareToken string `json:"share_token"`
}

func (h *SessionHandler) Complete(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	sess, err := h.svc.Complete(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, CompleteSessionResponse{
		Session:    sess,
		ShareToken: sess.ShareToken,
	}, "interview completed")
}

// Activity handles liveness pings that feed the idle-timeout policy.
func (h *SessionHandler) Activity(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	if err := h.svc.Touch(c.Request.Context(), c.Param("session_id")); err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "ok")
}
