package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillvue/skillvue-backend/internal/models"
	"github.com/skillvue/skillvue-backend/internal/utils"
)

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]models.CollegeJobTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[string]models.CollegeJobTemplate{}}
}

func (f *fakeTemplateRepo) Insert(ctx context.Context, t *models.CollegeJobTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[t.ID] = *t
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.CollegeJobTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTemplateRepo) ListByCollege(ctx context.Context, collegeID string, limit int) ([]models.CollegeJobTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.CollegeJobTemplate
	for _, t := range f.templates {
		if t.CollegeID == collegeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func newTemplateEnv() (*fakeAuditRepo, TemplateService) {
	audit := &fakeAuditRepo{}
	svc := NewTemplateService(newFakeTemplateRepo(), NewAuditRecorder(audit, logrusDiscard()))
	return audit, svc
}

func TestTemplate_CreateRequiresCollege(t *testing.T) {
	_, svc := newTemplateEnv()

	_, err := svc.Create(context.Background(), "", "op-1", CreateTemplateInput{Title: "x", Role: "dev"})
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestTemplate_DuplicateWithinCollege(t *testing.T) {
	audit, svc := newTemplateEnv()
	ctx := context.Background()

	src, err := svc.Create(ctx, "college-1", "op-1", CreateTemplateInput{
		Title:  "Grad Backend",
		Role:   "backend engineer",
		Skills: []string{"go"},
	})
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, "college-1", "op-2", src.ID)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Grad Backend (copy)", dup.Title)
	assert.Equal(t, src.Role, dup.Role)
	assert.Equal(t, "op-2", dup.CreatedBy)
	assert.Equal(t, []string{
		models.AuditTemplateCreated,
		models.AuditTemplateDuplicated,
	}, audit.actions())
}

func TestTemplate_CrossCollegeDuplicateForbidden(t *testing.T) {
	_, svc := newTemplateEnv()
	ctx := context.Background()

	src, err := svc.Create(ctx, "college-1", "op-1", CreateTemplateInput{Title: "t", Role: "dev"})
	require.NoError(t, err)

	_, err = svc.Duplicate(ctx, "college-2", "op-9", src.ID)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestTemplate_UnknownID(t *testing.T) {
	_, svc := newTemplateEnv()

	_, err := svc.Get(context.Background(), "college-1", "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
