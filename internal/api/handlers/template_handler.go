package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/services"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

type TemplateHandler struct {
	svc services.TemplateService
}

func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

type CreateTemplateRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Role        string         `json:"role" binding:"required"`
	Level       string         `json:"level"`
	Skills      []string       `json:"skills"`
	Config      map[string]any `json:"config"`
}

func (h *TemplateHandler) Create(c *gin.Context) {
	op, ok := requireOperator(c)
	if !ok {
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TemplateHandler.Create", "invalid request body", err))
		return
	}

	var cfg []byte
	if req.Config != nil {
		b, err := json.Marshal(req.Config)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "TemplateHandler.Create", "config is not serializable", err))
			return
		}
		cfg = b
	}

	tpl, err := h.svc.Create(c.Request.Context(), op.CollegeID, op.UserID, services.CreateTemplateInput{
		Title:       req.Title,
		Description: req.Description,
		Role:        req.Role,
		Level:       req.Level,
		Skills:      req.Skills,
		Config:      cfg,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, tpl, "template created")
}

func (h *TemplateHandler) List(c *gin.Context) {
	op, ok := requireOperator(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.List(c.Request.Context(), op.CollegeID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, rows, "")
}

func (h *TemplateHandler) Get(c *gin.Context) {
	op, ok := requireOperator(c)
	if !ok {
		return
	}

	tpl, err := h.svc.Get(c.Request.Context(), op.CollegeID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, tpl, "")
}

func (h *TemplateHandler) Duplicate(c *gin.Context) {
	op, ok := requireOperator(c)
	if !ok {
		return
	}

	tpl, err := h.svc.Duplicate(c.Request.Context(), op.CollegeID, op.UserID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, tpl, "template duplicated")
}
