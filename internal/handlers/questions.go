package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Generate godoc
// @Summary     Generate interview questions
// @Description Generates questions from uploaded documents via the question agent
// @Tags        question
// @Accept      json
// @Produce     json
// @Param       request body models.GenerateQuestionsRequest true "Generation input"
// @Success     201 {object} models.Envelope
// @Failure     503 {object} models.Envelope
// @Router      /question/generate [post]
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req models.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "interviewId is required")
		return
	}

	questions, err := h.questions.Generate(c.Request.Context(), middleware.AccountID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "questions generated", questions)
}

func (h *QuestionHandler) Custom(c *gin.Context) {
	var req models.CustomQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "interviewId and questionText are required")
		return
	}

	question, err := h.questions.AddCustom(middleware.AccountID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "question added", question)
}

func (h *QuestionHandler) List(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}

	questions, err := h.questions.List(middleware.AccountID(c), interviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", questions)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		respondInvalid(c, "invalid question id")
		return
	}

	if err := h.questions.Delete(middleware.AccountID(c), questionID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "question deleted", nil)
}
