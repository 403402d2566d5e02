package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
	"interview-media-backend/internal/store"
)

func createInterview(t *testing.T, svc *services.InterviewService, account uuid.UUID) *models.Interview {
	t.Helper()
	iv, err := svc.Create(account, &models.CreateInterviewRequest{
		Title:       "Backend developer mock",
		Company:     "Acme",
		JobCategory: "backend",
	})
	assert.NoError(t, err)
	return iv
}

func TestInterviewCreate_AssignsQuestionOrder(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())
	account := uuid.New()

	iv, err := svc.Create(account, &models.CreateInterviewRequest{
		Title:       "Backend developer mock",
		JobCategory: "backend",
		Questions: []models.CreateQuestionRequest{
			{QuestionText: "first"},
			{QuestionText: ""},
			{QuestionText: "second", TimeLimit: 300},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, iv.Status)

	// Blank question texts are dropped; order follows the request index.
	assert.Len(t, iv.Questions, 2)
	assert.Equal(t, 1, iv.Questions[0].OrderNum)
	assert.Equal(t, models.DefaultTimeLimit, iv.Questions[0].TimeLimit)
	assert.Equal(t, 3, iv.Questions[1].OrderNum)
	assert.Equal(t, 300, iv.Questions[1].TimeLimit)
}

func TestInterviewGet_Forbidden(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())
	iv := createInterview(t, svc, uuid.New())

	_, err := svc.Get(uuid.New(), iv.ID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestInterviewGet_NotFound(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())

	_, err := svc.Get(uuid.New(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestInterviewList_InvalidStatusFilter(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())

	_, err := svc.List(uuid.New(), "archived", 1, 10)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestInterviewUpdateStatus_ForwardOnly(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())
	account := uuid.New()
	iv := createInterview(t, svc, account)

	updated, err := svc.UpdateStatus(account, iv.ID, models.StatusInProgress)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	_, err = svc.UpdateStatus(account, iv.ID, models.StatusPending)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestInterviewUpdateStatus_CompletedIsTerminal(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())
	account := uuid.New()
	iv := createInterview(t, svc, account)

	completed, err := svc.Complete(account, iv.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = svc.UpdateStatus(account, iv.ID, models.StatusInProgress)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	// Completing again is allowed and keeps the original timestamp.
	again, err := svc.Complete(account, iv.ID)
	assert.NoError(t, err)
	assert.Equal(t, completed.CompletedAt.Unix(), again.CompletedAt.Unix())
}

func TestInterviewUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := services.NewInterviewService(store.NewMemory())
	account := uuid.New()
	iv := createInterview(t, svc, account)

	_, err := svc.UpdateStatus(account, iv.ID, "paused")
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestInterviewDelete_OwnershipChecked(t *testing.T) {
	st := store.NewMemory()
	svc := services.NewInterviewService(st)
	iv := createInterview(t, svc, uuid.New())

	err := svc.Delete(uuid.New(), iv.ID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	// Still present after the rejected delete.
	_, err = st.GetInterview(iv.ID)
	assert.NoError(t, err)
}
