package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

func newPresenceEnv() (*testEnv, PresenceService) {
	env := newTestEnv()
	svc := NewPresenceService(env.store, env.cache, NewAuditRecorder(env.audit, logrusDiscard()), nil, nil)
	return env, svc
}

type fakeUploader struct {
	mu      sync.Mutex
	objects []string
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects = append(f.objects, objectName)
	return "gs://test-bucket/" + objectName, nil
}

func (f *fakeUploader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func TestPresence_PhotoThenPhrase(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	first, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhotoDataURL: "data:image/png;base64,aGkh"})
	require.NoError(t, err)
	require.NotNil(t, first.Presence)
	require.NotNil(t, first.Presence.CompletedAt)
	firstStamp := *first.Presence.CompletedAt

	second, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: "I confirm it is me"})
	require.NoError(t, err)

	p := second.Presence
	require.NotNil(t, p)
	assert.Equal(t, "data:image/png;base64,aGkh", p.PhotoDataURL)
	assert.Equal(t, "I confirm it is me", p.PhraseTranscript)
	assert.NotEmpty(t, p.PhrasePrompt)
	// completion stamps on the first evidence and never moves
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, firstStamp, *p.CompletedAt)
}

func TestPresence_PhraseThenPhoto(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	first, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: "it is me"})
	require.NoError(t, err)
	firstStamp := *first.Presence.CompletedAt

	second, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhotoDataURL: "data:image/png;base64,aGkh"})
	require.NoError(t, err)

	p := second.Presence
	assert.Equal(t, "it is me", p.PhraseTranscript)
	assert.Equal(t, "data:image/png;base64,aGkh", p.PhotoDataURL)
	assert.Equal(t, firstStamp, *p.CompletedAt)
}

func TestPresence_OmittedFieldsSurvive(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	_, err := svc.Record(ctx, sess.SessionID, PresenceInput{
		PhotoDataURL:     "data:image/png;base64,aGkh",
		PhraseTranscript: "original phrase",
	})
	require.NoError(t, err)

	// a later photo-only call must not clear the phrase
	updated, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhotoDataURL: "data:image/png;base64,Ynll"})
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,Ynll", updated.Presence.PhotoDataURL)
	assert.Equal(t, "original phrase", updated.Presence.PhraseTranscript)
}

func TestPresence_TranscriptTruncatedAndSanitized(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	long := "<script>alert(1)</script>" + strings.Repeat("a", 300)
	updated, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: long})
	require.NoError(t, err)

	got := updated.Presence.PhraseTranscript
	assert.NotContains(t, got, "<")
	assert.LessOrEqual(t, len([]rune(got)), 200)
}

func TestPresence_OversizedPhotoRejected(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	huge := "data:image/png;base64," + strings.Repeat("A", maxPhotoBytes)
	_, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhotoDataURL: huge})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	cur, err := env.store.Get(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Nil(t, cur.Presence)
}

func TestPresence_EmptyInputRejected(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	_, err := svc.Record(ctx, sess.SessionID, PresenceInput{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestPresence_UnknownSession(t *testing.T) {
	_, svc := newPresenceEnv()

	_, err := svc.Record(context.Background(), "missing", PresenceInput{PhraseTranscript: "hello"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestPresence_PhotoOffloadedToStorage(t *testing.T) {
	env := newTestEnv()
	up := &fakeUploader{}
	svc := NewPresenceService(env.store, env.cache, NewAuditRecorder(env.audit, logrusDiscard()), nil, up)
	ctx := context.Background()
	sess := env.startedSession(ctx)

	updated, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhotoDataURL: "data:image/png;base64,aGkh"})
	require.NoError(t, err)

	assert.Equal(t, 1, up.count())
	assert.True(t, strings.HasPrefix(updated.Presence.PhotoDataURL, "gs://test-bucket/presence/"+sess.SessionID+"/"))
}

// A bad session id must fail before the photo touches object storage,
// otherwise every mistyped id leaves an orphan object behind.
func TestPresence_UnknownSessionUploadsNothing(t *testing.T) {
	env := newTestEnv()
	up := &fakeUploader{}
	svc := NewPresenceService(env.store, env.cache, NewAuditRecorder(env.audit, logrusDiscard()), nil, up)

	_, err := svc.Record(context.Background(), "missing", PresenceInput{PhotoDataURL: "data:image/png;base64,aGkh"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	assert.Equal(t, 0, up.count())
}

// The cut must never land inside a tag: markup is stripped before the
// transcript is shortened, so a tag straddling the length limit cannot
// leave a dangling fragment.
func TestPresence_TagAcrossTruncationBoundaryStripped(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)

	raw := strings.Repeat("a", maxTranscriptRunes-5) + "<script>alert(1)</script>" + strings.Repeat("b", 50)
	updated, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: raw})
	require.NoError(t, err)

	got := updated.Presence.PhraseTranscript
	assert.NotContains(t, got, "<")
	assert.LessOrEqual(t, len([]rune(got)), maxTranscriptRunes)
}

func TestPresence_AuditEntryPerCall(t *testing.T) {
	env, svc := newPresenceEnv()
	ctx := context.Background()
	sess := env.startedSession(ctx)
	before := len(env.audit.actions())

	_, err := svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: "one"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, sess.SessionID, PresenceInput{PhraseTranscript: "two"})
	require.NoError(t, err)

	actions := env.audit.actions()[before:]
	assert.Equal(t, []string{models.AuditPresenceRecorded, models.AuditPresenceRecorded}, actions)
}
