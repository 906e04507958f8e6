package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session modes.
const (
	ModeIndividual = "individual"
	ModeCompany    = "company"
	ModeCollege    = "college"
)

// Session statuses. Transitions are forward-only:
// draft -> in_progress -> completed.
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Question struct {
	ID     string `bson:"id" json:"id"`
	Prompt string `bson:"prompt" json:"prompt"`
	Skill  string `bson:"skill,omitempty" json:"skill,omitempty"`
}

// PresenceCheck accumulates liveness evidence field by field. Fields are
// only ever written, never cleared by omission.
type PresenceCheck struct {
	PhotoDataURL     string     `bson:"photo_data_url,omitempty" json:"photo_data_url,omitempty"`
	PhrasePrompt     string     `bson:"phrase_prompt,omitempty" json:"phrase_prompt,omitempty"`
	PhraseTranscript string     `bson:"phrase_transcript,omitempty" json:"phrase_transcript,omitempty"`
	CompletedAt      *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	Mode      string             `bson:"mode" json:"mode"`             // individual|company|college
	Role      string             `bson:"role" json:"role"`
	Level     string             `bson:"level" json:"level"`
	Status    string             `bson:"status" json:"status"` // draft|in_progress|completed

	Questions            []Question `bson:"questions,omitempty" json:"questions,omitempty"`
	CurrentQuestionIndex int        `bson:"current_question_index" json:"current_question_index"`
	TopSkills            []string   `bson:"top_skills,omitempty" json:"top_skills,omitempty"`

	Presence *PresenceCheck `bson:"presence,omitempty" json:"presence,omitempty"`

	Report       json.RawMessage `bson:"report,omitempty" json:"report,omitempty"`
	ScoreSummary json.RawMessage `bson:"score_summary,omitempty" json:"score_summary,omitempty"`
	ShareToken   string          `bson:"share_token,omitempty" json:"-"`

	LastActivityAt time.Time  `bson:"last_activity_at" json:"last_activity_at"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	CollegeID string `bson:"college_id,omitempty" json:"college_id,omitempty"`
	CreatedBy string `bson:"created_by,omitempty" json:"created_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Version is the optimistic-concurrency counter used by the durable
	// store's read-modify-write loop. Never exposed to clients.
	Version int64 `bson:"version" json:"-"`
}

// CanTransition reports whether a status change is legal. Status never
// moves backwards.
func (s *Session) CanTransition(to string) bool {
	switch s.Status {
	case StatusDraft:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusCompleted
	default:
		return false
	}
}

// Started reports whether the question list has been populated.
func (s *Session) Started() bool { return len(s.Questions) > 0 }

// ClampIndex forces CurrentQuestionIndex into [0, len(Questions)-1].
// A no-op while Questions is empty.
func (s *Session) ClampIndex() {
	if len(s.Questions) == 0 {
		return
	}
	if s.CurrentQuestionIndex < 0 {
		s.CurrentQuestionIndex = 0
	}
	if s.CurrentQuestionIndex > len(s.Questions)-1 {
		s.CurrentQuestionIndex = len(s.Questions) - 1
	}
}

// Clone returns a deep copy. Stores hand mutators a copy so a failed
// mutation never leaves a half-written record behind.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Questions != nil {
		cp.Questions = make([]Question, len(s.Questions))
		copy(cp.Questions, s.Questions)
	}
	if s.TopSkills != nil {
		cp.TopSkills = make([]string, len(s.TopSkills))
		copy(cp.TopSkills, s.TopSkills)
	}
	if s.Presence != nil {
		p := *s.Presence
		if s.Presence.CompletedAt != nil {
			t := *s.Presence.CompletedAt
			p.CompletedAt = &t
		}
		cp.Presence = &p
	}
	if s.Report != nil {
		cp.Report = append(json.RawMessage(nil), s.Report...)
	}
	if s.ScoreSummary != nil {
		cp.ScoreSummary = append(json.RawMessage(nil), s.ScoreSummary...)
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}
