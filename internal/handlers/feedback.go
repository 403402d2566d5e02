package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
)

type FeedbackHandler struct {
	feedback *services.FeedbackService
}

func NewFeedbackHandler(feedback *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Analyze godoc
// @Summary     Analyze an uploaded recording
// @Description Runs expression and voice analysis and stores the resulting feedback
// @Tags        feedback
// @Accept      json
// @Produce     json
// @Param       request body models.AnalyzeVideoRequest true "Video id"
// @Success     200 {object} models.Envelope
// @Failure     502 {object} models.Envelope
// @Failure     503 {object} models.Envelope
// @Router      /feedback/analyze [post]
func (h *FeedbackHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "videoId is required")
		return
	}
	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		respondInvalid(c, "invalid video id")
		return
	}

	feedback, err := h.feedback.Analyze(c.Request.Context(), middleware.AccountID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "analysis complete", feedback)
}

func (h *FeedbackHandler) GetByInterview(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}

	result, err := h.feedback.GetInterviewFeedback(middleware.AccountID(c), interviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", result)
}

func (h *FeedbackHandler) GetDetail(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		respondInvalid(c, "invalid video id")
		return
	}

	detail, err := h.feedback.GetDetail(middleware.AccountID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", detail)
}
