package models

import "github.com/google/uuid"

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type InterviewListResponse struct {
	Interviews []Interview `json:"interviews"`
	Pagination Pagination  `json:"pagination"`
}

type DocumentListResponse struct {
	Portfolio *Document `json:"portfolio"`
	Introduce *Document `json:"introduce"`
	HasBoth   bool      `json:"hasBoth"`
}

type DocumentStatusResponse struct {
	HasPortfolio bool `json:"hasPortfolio"`
	HasIntroduce bool `json:"hasIntroduce"`
	Ready        bool `json:"ready"`
}

type DocumentAnalysisResponse struct {
	DocumentID    uuid.UUID        `json:"documentId"`
	DocumentType  string           `json:"documentType"`
	FileName      string           `json:"fileName"`
	ExtractedText string           `json:"extractedText"`
	Analysis      DocumentAnalysis `json:"analysis"`
}

type DocumentAnalysis struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Skills    []string `json:"skills"`
}

type ScoreSet struct {
	Expression int `json:"expression"`
	EyeContact int `json:"eyeContact"`
	Voice      int `json:"voice"`
	Content    int `json:"content"`
	Overall    int `json:"overall"`
}

type FeedbackNotes struct {
	GoodPoints  string `json:"goodPoints"`
	BadPoints   string `json:"badPoints"`
	Improvement string `json:"improvement"`
}

type InterviewFeedbackResponse struct {
	InterviewID       uuid.UUID          `json:"interviewId"`
	OverallFeedback   *OverallFeedback   `json:"overallFeedback"`
	QuestionFeedbacks []QuestionFeedback `json:"questionFeedbacks"`
}

type OverallFeedback struct {
	Scores ScoreSet `json:"scores"`
	FeedbackNotes
}

type QuestionFeedback struct {
	QuestionID   uuid.UUID     `json:"questionId"`
	QuestionText string        `json:"questionText"`
	VideoID      uuid.UUID     `json:"videoId"`
	Scores       ScoreSet      `json:"scores"`
	Feedback     FeedbackNotes `json:"detailedFeedback"`
}

type FeedbackDetailResponse struct {
	VideoID    uuid.UUID     `json:"videoId"`
	QuestionID uuid.UUID     `json:"questionId"`
	VideoURL   string        `json:"videoUrl"`
	Scores     ScoreSet      `json:"scores"`
	Feedback   FeedbackNotes `json:"feedback"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
