package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
)

type InterviewHandler struct {
	interviews *services.InterviewService
}

func NewInterviewHandler(interviews *services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// Create godoc
// @Summary     Create an interview session
// @Description Creates an interview with an optional initial question list
// @Tags        interview
// @Accept      json
// @Produce     json
// @Param       request body models.CreateInterviewRequest true "Interview"
// @Success     201 {object} models.Envelope
// @Router      /interview/create [post]
func (h *InterviewHandler) Create(c *gin.Context) {
	var req models.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "title and jobCategory are required")
		return
	}

	iv, err := h.interviews.Create(middleware.AccountID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "interview created", iv)
}

// List godoc
// @Summary     List interviews
// @Description Paginated interview list with optional status filter
// @Tags        interview
// @Produce     json
// @Param       status query string false "pending|in_progress|completed"
// @Param       page query int false "page (default 1)"
// @Param       limit query int false "page size (default 10)"
// @Success     200 {object} models.Envelope
// @Router      /interview/list [get]
func (h *InterviewHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.interviews.List(middleware.AccountID(c), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", list)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}

	iv, err := h.interviews.Get(middleware.AccountID(c), interviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", iv)
}

// Delete removes the interview and, through the cascade, its questions,
// videos and feedback.
func (h *InterviewHandler) Delete(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}

	if err := h.interviews.Delete(middleware.AccountID(c), interviewID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "interview deleted", nil)
}

func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "status is required")
		return
	}

	iv, err := h.interviews.UpdateStatus(middleware.AccountID(c), interviewID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "interview status updated", iv)
}

func (h *InterviewHandler) Complete(c *gin.Context) {
	interviewID, err := uuid.Parse(c.Param("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}

	iv, err := h.interviews.Complete(middleware.AccountID(c), interviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "interview completed", iv)
}
