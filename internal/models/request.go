package models

type CreateInterviewRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Company     string                  `json:"company"`
	JobCategory string                  `json:"jobCategory" binding:"required"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	QuestionText string  `json:"questionText"`
	AnswerGuide  *string `json:"answerGuide"`
	TimeLimit    int     `json:"timeLimit"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GenerateQuestionsRequest struct {
	InterviewID   string   `json:"interviewId" binding:"required"`
	DocumentIDs   []string `json:"documentIds"`
	JobCategory   string   `json:"jobCategory"`
	QuestionCount int      `json:"questionCount"`
}

type CustomQuestionRequest struct {
	InterviewID  string `json:"interviewId" binding:"required"`
	QuestionText string `json:"questionText" binding:"required"`
	TimeLimit    int    `json:"timeLimit"`
}

type AnalyzeVideoRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}

type AnalyzeDocumentRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
}
