package models

import (
	"time"

	"github.com/google/uuid"
)

// Interview status values. Transitions move forward only:
// pending -> in_progress -> completed.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Interview struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"accountId"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	JobCategory string     `json:"jobCategory"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// QuestionCount is populated by list queries, Questions by detail queries.
	QuestionCount int        `json:"questionCount,omitempty"`
	Questions     []Question `json:"questions,omitempty"`
}

type Question struct {
	ID            uuid.UUID `json:"id"`
	InterviewID   uuid.UUID `json:"interviewId"`
	QuestionText  string    `json:"questionText"`
	AnswerGuide   *string   `json:"answerGuide,omitempty"`
	OrderNum      int       `json:"orderNum"`
	TimeLimit     int       `json:"timeLimit"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DefaultTimeLimit is the per-question answer window in seconds.
const DefaultTimeLimit = 180
