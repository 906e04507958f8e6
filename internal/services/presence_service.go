package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skillvue/skillvue-backend/internal/cache"
	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/providers/stt"
	"github.com/skillvue/skillvue-backend/internal/storage"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

const (
	// maxPhotoBytes caps the encoded photo data URL at ~1.5 MB.
	maxPhotoBytes = 1536 * 1024
	// maxTranscriptRunes caps the spoken-phrase transcript.
	maxTranscriptRunes = 200

	defaultPhrasePrompt = "I confirm that I am completing this interview myself."
)

type PresenceInput struct {
	PhotoDataURL     string
	PhraseTranscript string

	// Raw phrase audio; transcribed server-side when a transcriber is
	// configured, otherwise ignored.
	PhraseAudio []byte
	Language    string
}

// PresenceService merges liveness evidence into a session. The merge is
// monotonic: newly supplied fields overwrite, omitted fields survive, so
// a two-phase capture (photo now, phrase later, or the reverse)
// converges to a complete record in either order.
type PresenceService interface {
	Record(ctx context.Context, sessionID string, in PresenceInput) (*models.Session, error)
}

type presenceService struct {
	store       SessionStore
	cache       cache.Cache
	audit       *AuditRecorder
	transcriber stt.Provider     // optional
	photos      storage.Uploader // optional
}

func NewPresenceService(store SessionStore, c cache.Cache, audit *AuditRecorder, transcriber stt.Provider, photos storage.Uploader) PresenceService {
	return &presenceService{store: store, cache: c, audit: audit, transcriber: transcriber, photos: photos}
}

func (s *presenceService) Record(ctx context.Context, sessionID string, in PresenceInput) (*models.Session, error) {
	const op = "PresenceService.Record"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if len(in.PhotoDataURL) > maxPhotoBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "photo exceeds the 1.5MB limit", nil)
	}

	// verify the session exists before transcribing or uploading anything,
	// otherwise a bad id leaves orphan objects in storage
	if _, err := s.store.Get(ctx, sessionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}

	transcript := in.PhraseTranscript
	if transcript == "" && len(in.PhraseAudio) > 0 && s.transcriber != nil {
		text, _, err := s.transcriber.Transcribe(ctx, in.PhraseAudio, in.Language)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "phrase transcription failed", err)
		}
		transcript = text
	}
	// strip markup before cutting so the cut can never land inside a tag
	transcript = utils.TruncateRunes(utils.SanitizeText(transcript), maxTranscriptRunes)

	photo := in.PhotoDataURL
	if photo != "" && s.photos != nil {
		url, err := s.offloadPhoto(ctx, sessionID, photo)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store presence photo", err)
		}
		photo = url
	}

	if photo == "" && transcript == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no presence evidence supplied", nil)
	}

	updated, err := s.store.Update(ctx, sessionID, func(sess *models.Session) error {
		if sess.Presence == nil {
			sess.Presence = &models.PresenceCheck{}
		}
		p := sess.Presence
		if photo != "" {
			p.PhotoDataURL = photo
		}
		if transcript != "" {
			p.PhraseTranscript = transcript
		}
		if p.PhrasePrompt == "" {
			p.PhrasePrompt = defaultPhrasePrompt
		}
		// first evidence stamps completion; later calls never move it
		if p.CompletedAt == nil && (p.PhotoDataURL != "" || p.PhraseTranscript != "") {
			now := time.Now().UTC()
			p.CompletedAt = &now
		}
		sess.LastActivityAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to record presence", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, sessionCacheKey(sessionID), updated, sessionCacheTTL)
	}
	s.audit.Record(ctx, models.AuditPresenceRecorded, EntitySession, sessionID, map[string]any{
		"photo":   photo != "",
		"phrase":  transcript != "",
		"version": updated.Version,
	})
	return updated, nil
}

// offloadPhoto decodes a base64 data URL and writes it to object
// storage, returning the object's URL.
func (s *presenceService) offloadPhoto(ctx context.Context, sessionID, dataURL string) (string, error) {
	contentType := "image/jpeg"
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		rest := strings.TrimPrefix(dataURL, "data:")
		meta, b64, ok := strings.Cut(rest, ",")
		if !ok {
			return "", fmt.Errorf("malformed data url")
		}
		if ct, _, found := strings.Cut(meta, ";"); found && ct != "" {
			contentType = ct
		} else if meta != "" && !strings.Contains(meta, ";") {
			contentType = meta
		}
		payload = b64
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode photo payload: %w", err)
	}

	object := fmt.Sprintf("presence/%s/%s", sessionID, uuid.NewString())
	return s.photos.Upload(ctx, object, contentType, bytes.NewReader(raw))
}
