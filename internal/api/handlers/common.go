package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// APIResponse is the success envelope: the payload plus a human message,
// rendered by callers without inspecting internal state.
type APIResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, APIResponse{Data: data, Message: message})
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// operator identity extracted by the JWT middleware.
type operator struct {
	UserID    string
	Email     string
	CollegeID string
	Role      string
}

func requireOperator(c *gin.Context) (operator, bool) {
	var op operator
	if v, ok := c.Get("user_id"); ok {
		op.UserID, _ = v.(string)
	}
	if v, ok := c.Get("user_email"); ok {
		op.Email, _ = v.(string)
	}
	if v, ok := c.Get("college_id"); ok {
		op.CollegeID, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		op.Role, _ = v.(string)
	}

	if op.UserID == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
		return operator{}, false
	}
	return op, true
}
