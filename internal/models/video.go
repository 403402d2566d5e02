package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is one recorded answer clip. VideoPath and AudioPath are stored
// relative to the upload root. A question may accumulate several videos;
// the client is expected to record once but nothing enforces it.
type Video struct {
	ID          uuid.UUID `json:"id"`
	InterviewID uuid.UUID `json:"interviewId"`
	QuestionID  uuid.UUID `json:"questionId"`
	VideoPath   string    `json:"videoPath"`
	AudioPath   *string   `json:"audioPath,omitempty"`
	Duration    int       `json:"duration"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Feedback is the scored analysis result for one video, at most one per video.
type Feedback struct {
	ID              uuid.UUID `json:"id"`
	VideoID         uuid.UUID `json:"videoId"`
	ExpressionScore int       `json:"expressionScore"`
	EyeContactScore int       `json:"eyeContactScore"`
	VoiceScore      int       `json:"voiceScore"`
	ContentScore    int       `json:"contentScore"`
	OverallScore    int       `json:"overallScore"`
	GoodPoints      string    `json:"goodPoints"`
	BadPoints       string    `json:"badPoints"`
	Improvement     string    `json:"improvement"`
	CreatedAt       time.Time `json:"createdAt"`

	// QuestionID and QuestionText are populated by interview-level queries.
	QuestionID   uuid.UUID `json:"questionId,omitempty"`
	QuestionText string    `json:"questionText,omitempty"`
}
