// Package store provides the durable records for interviews, questions,
// videos, feedback and documents. Two implementations exist: a postgres
// client whose foreign keys enforce the delete cascades, and an in-memory
// store that walks the cascades explicitly. Ownership and enum validation
// belong to the callers; the store only promises referential integrity and
// NotFound on unresolved ids.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"interview-media-backend/internal/models"
)

// ErrNotFound is returned whenever an id does not resolve to a row.
var ErrNotFound = errors.New("record not found")

type Store interface {
	EnsureAccount(id uuid.UUID) error

	CreateInterview(iv *models.Interview) error
	GetInterview(id uuid.UUID) (*models.Interview, error)
	GetInterviewWithQuestions(id uuid.UUID) (*models.Interview, error)
	ListInterviews(accountID uuid.UUID, status string, page, limit int) ([]models.Interview, models.Pagination, error)
	UpdateInterviewStatus(id uuid.UUID, status string, completedAt *time.Time) error
	DeleteInterview(id uuid.UUID) error

	CreateQuestions(qs []models.Question) error
	GetQuestion(id uuid.UUID) (*models.Question, error)
	ListQuestions(interviewID uuid.UUID) ([]models.Question, error)
	CountQuestions(interviewID uuid.UUID) (int, error)
	DeleteQuestion(id uuid.UUID) error

	CreateVideo(v *models.Video) error
	GetVideo(id uuid.UUID) (*models.Video, error)
	UpdateVideoAudioPath(id uuid.UUID, audioPath string) error
	ListVideosByInterview(interviewID uuid.UUID) ([]models.Video, error)

	UpsertFeedback(f *models.Feedback) error
	GetFeedbackByVideo(videoID uuid.UUID) (*models.Feedback, error)
	ListFeedbackByInterview(interviewID uuid.UUID) ([]models.Feedback, error)

	CreateDocument(d *models.Document) error
	GetDocument(id uuid.UUID) (*models.Document, error)
	GetDocumentByType(accountID uuid.UUID, docType string) (*models.Document, error)
	ListDocuments(accountID uuid.UUID) ([]models.Document, error)
	UpdateDocumentText(id uuid.UUID, text string) error
	DeleteDocument(id uuid.UUID) error
}

// normalizePaging applies the documented defaults: non-positive page or
// limit fall back to 1 and 10.
func normalizePaging(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

func buildPagination(total, page, limit int) models.Pagination {
	totalPages := (total + limit - 1) / limit
	return models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page*limit < total,
		HasPrev:     page > 1,
	}
}
