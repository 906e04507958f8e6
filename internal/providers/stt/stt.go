package stt

import "context"

// Provider transcribes presence-check phrase audio. The sanitizer and
// length limits are applied by the presence service after transcription.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
