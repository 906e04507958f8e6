package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/services"
)

// ShareHandler serves the public share-link route. The token is the
// capability; no auth middleware sits in front of it.
type ShareHandler struct {
	svc services.ShareService
}

func NewShareHandler(svc services.ShareService) *ShareHandler {
	return &ShareHandler{svc: svc}
}

func (h *ShareHandler) Resolve(c *gin.Context) {
	view, err := h.svc.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, view, "")
}
