package utils

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"not started", E(CodeNotStarted, "op", "not started", nil), http.StatusBadRequest},
		{"unauthorized", E(CodeUnauthorized, "op", "", nil), http.StatusUnauthorized},
		{"forbidden", E(CodeForbidden, "op", "", nil), http.StatusForbidden},
		{"not found", E(CodeNotFound, "op", "", nil), http.StatusNotFound},
		{"conflict", E(CodeConflict, "op", "", nil), http.StatusConflict},
		{"unavailable", E(CodeUnavailable, "op", "", nil), http.StatusServiceUnavailable},
		{"internal", E(CodeInternal, "op", "", nil), http.StatusInternalServerError},
		{"sentinel not found", ErrNotFound, http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	wrapped := E(CodeNotFound, "Outer", "", E(CodeNotFound, "Inner", "gone", nil))
	if !IsCode(wrapped, CodeNotFound) {
		t.Error("IsCode() should match the outer AppError code")
	}
	if IsCode(errors.New("boom"), CodeNotFound) {
		t.Error("IsCode() should not match a plain error")
	}
}

func TestAppError_Message(t *testing.T) {
	err := E(CodeInternal, "SessionService.Get", "failed to get session", errors.New("dial timeout"))
	want := "SessionService.Get: failed to get session: dial timeout"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
