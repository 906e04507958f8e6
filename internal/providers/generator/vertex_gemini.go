package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"
	"github.com/skillvue/skillvue-backend/internal/models"
)

// VertexGemini implements both generator collaborators on top of a
// Vertex AI Gemini model. Prompts ask for strict JSON; responses are
// unmarshalled and re-validated before use.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	// models occasionally wrap JSON in a fenced block
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out), nil
}

func (v *VertexGemini) GenerateQuestions(ctx context.Context, spec QuestionSpec) (*QuestionSet, error) {
	prompt := fmt.Sprintf(
		`You are an interviewer preparing a %s interview for a %s (%s level).
Focus skills: %s.
Return strict JSON: {"questions":[{"prompt":"...","skill":"..."}],"top_skills":["..."]}.
Generate 5 questions.`,
		spec.Mode, spec.Role, spec.Level, strings.Join(spec.Skills, ", "))

	raw, err := v.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []struct {
			Prompt string `json:"prompt"`
			Skill  string `json:"skill"`
		} `json:"questions"`
		TopSkills []string `json:"top_skills"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("question generator returned malformed JSON: %w", err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("question generator returned no questions")
	}

	set := &QuestionSet{TopSkills: parsed.TopSkills}
	for _, q := range parsed.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			continue
		}
		set.Questions = append(set.Questions, models.Question{
			ID:     uuid.NewString(),
			Prompt: q.Prompt,
			Skill:  q.Skill,
		})
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("question generator returned only empty prompts")
	}
	return set, nil
}

func (v *VertexGemini) GenerateReport(ctx context.Context, s *models.Session) (*Evaluation, error) {
	var qs []string
	for _, q := range s.Questions {
		qs = append(qs, q.Prompt)
	}
	prompt := fmt.Sprintf(
		`Evaluate a completed %s interview for a %s (%s level) covering:
%s
Return strict JSON: {"report":{"summary":"...","strengths":["..."],"improvements":["..."]},"score_summary":{"overall":0,"per_skill":{}}}.`,
		s.Mode, s.Role, s.Level, strings.Join(qs, "\n"))

	raw, err := v.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Report       json.RawMessage `json:"report"`
		ScoreSummary json.RawMessage `json:"score_summary"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("report generator returned malformed JSON: %w", err)
	}
	if len(parsed.Report) == 0 {
		return nil, fmt.Errorf("report generator returned an empty report")
	}
	return &Evaluation{Report: parsed.Report, ScoreSummary: parsed.ScoreSummary}, nil
}
