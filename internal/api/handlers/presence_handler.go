package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillvue/skillvue-backend/internal/services"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

type PresenceHandler struct {
	svc services.PresenceService
}

func NewPresenceHandler(svc services.PresenceService) *PresenceHandler {
	return &PresenceHandler{svc: svc}
}

type RecordPresenceRequest struct {
	PhotoDataURL     string `json:"photo_data_url"`
	PhraseTranscript string `json:"phrase_transcript"`
	PhraseAudioB64   string `json:"phrase_audio_base64"`
	Language         string `json:"language"`
}

func (h *PresenceHandler) Record(c *gin.Context) {
	if _, ok := requireOperator(c); !ok {
		return
	}

	var req RecordPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PresenceHandler.Record", "invalid request body", err))
		return
	}

	var audio []byte
	if req.PhraseAudioB64 != "" {
		b, err := base64.StdEncoding.DecodeString(req.PhraseAudioB64)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "PresenceHandler.Record", "phrase_audio_base64 is not valid base64", err))
			return
		}
		audio = b
	}

	sess, err := h.svc.Record(c.Request.Context(), c.Param("session_id"), services.PresenceInput{
		PhotoDataURL:     req.PhotoDataURL,
		PhraseTranscript: req.PhraseTranscript,
		PhraseAudio:      audio,
		Language:         req.Language,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, sess.Presence, "presence recorded")
}
