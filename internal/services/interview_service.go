// Package services implements the business operations behind the HTTP
// handlers. Every operation resolves the owning interview (or document)
// first and compares the caller's account against the owner before touching
// anything else; the store itself only reports NotFound.
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/store"
)

type InterviewService struct {
	store store.Store
}

func NewInterviewService(st store.Store) *InterviewService {
	return &InterviewService{store: st}
}

func (s *InterviewService) Create(account uuid.UUID, req *models.CreateInterviewRequest) (*models.Interview, error) {
	iv := &models.Interview{
		ID:          uuid.New(),
		AccountID:   account,
		Title:       req.Title,
		Company:     req.Company,
		JobCategory: req.JobCategory,
		Status:      models.StatusPending,
	}
	if err := s.store.CreateInterview(iv); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		if q.QuestionText == "" {
			continue
		}
		timeLimit := q.TimeLimit
		if timeLimit <= 0 {
			timeLimit = models.DefaultTimeLimit
		}
		questions = append(questions, models.Question{
			ID:           uuid.New(),
			InterviewID:  iv.ID,
			QuestionText: q.QuestionText,
			AnswerGuide:  q.AnswerGuide,
			OrderNum:     i + 1,
			TimeLimit:    timeLimit,
		})
	}
	if len(questions) > 0 {
		if err := s.store.CreateQuestions(questions); err != nil {
			return nil, err
		}
	}

	return s.store.GetInterviewWithQuestions(iv.ID)
}

func (s *InterviewService) List(account uuid.UUID, status string, page, limit int) (*models.InterviewListResponse, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, apperr.New(apperr.InvalidInput, "invalid interview status filter")
	}
	interviews, pagination, err := s.store.ListInterviews(account, status, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.InterviewListResponse{
		Interviews: interviews,
		Pagination: pagination,
	}, nil
}

func (s *InterviewService) Get(account, interviewID uuid.UUID) (*models.Interview, error) {
	iv, err := s.store.GetInterviewWithQuestions(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}
	return iv, nil
}

func (s *InterviewService) Delete(account, interviewID uuid.UUID) error {
	if _, err := s.resolveOwned(account, interviewID); err != nil {
		return err
	}
	return s.store.DeleteInterview(interviewID)
}

// statusRank orders the forward-only lifecycle.
var statusRank = map[string]int{
	models.StatusPending:    0,
	models.StatusInProgress: 1,
	models.StatusCompleted:  2,
}

// UpdateStatus moves the interview forward in its lifecycle. Backward
// transitions and any transition out of completed are rejected.
func (s *InterviewService) UpdateStatus(account, interviewID uuid.UUID, status string) (*models.Interview, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.New(apperr.InvalidInput, "invalid interview status")
	}
	iv, err := s.resolveOwned(account, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status == models.StatusCompleted && status != models.StatusCompleted {
		return nil, apperr.New(apperr.InvalidInput, "interview is already completed")
	}
	if statusRank[status] < statusRank[iv.Status] {
		return nil, apperr.New(apperr.InvalidInput, "interview status can only move forward")
	}

	completedAt := iv.CompletedAt
	if status == models.StatusCompleted && completedAt == nil {
		now := time.Now()
		completedAt = &now
	}
	if err := s.store.UpdateInterviewStatus(interviewID, status, completedAt); err != nil {
		return nil, interviewErr(err)
	}
	return s.store.GetInterview(interviewID)
}

func (s *InterviewService) Complete(account, interviewID uuid.UUID) (*models.Interview, error) {
	return s.UpdateStatus(account, interviewID, models.StatusCompleted)
}

func (s *InterviewService) resolveOwned(account, interviewID uuid.UUID) (*models.Interview, error) {
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}
	return iv, nil
}

func interviewErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "interview not found")
	}
	return err
}
