package handlers

import (
	"github.com/gin-gonic/gin"

	"interview-media-backend/internal/config"
	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/services"
)

type RouterDeps struct {
	Config    *config.Config
	Interview *services.InterviewService
	Question  *services.QuestionService
	Video     *services.VideoService
	Document  *services.DocumentService
	Feedback  *services.FeedbackService
}

// NewRouter wires every API route under /api with the shared middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.Default()

	interviews := NewInterviewHandler(deps.Interview)
	questions := NewQuestionHandler(deps.Question)
	videos := NewVideoHandler(deps.Video, deps.Config.UploadRoot)
	documents := NewDocumentHandler(deps.Document, deps.Config.UploadRoot)
	feedback := NewFeedbackHandler(deps.Feedback)

	r.GET("/health", HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.BodyLimit(deps.Config.MaxUploadBytes))
	api.Use(middleware.Account(deps.Config))
	{
		api.POST("/interview/create", interviews.Create)
		api.GET("/interview/list", interviews.List)
		api.GET("/interview/:interviewId", interviews.Get)
		api.DELETE("/interview/:interviewId", interviews.Delete)
		api.PUT("/interview/:interviewId/status", interviews.UpdateStatus)
		api.POST("/interview/:interviewId/complete", interviews.Complete)

		api.POST("/question/generate", questions.Generate)
		api.POST("/question/custom", questions.Custom)
		api.GET("/question/list/:interviewId", questions.List)
		api.DELETE("/question/:questionId", questions.Delete)

		api.POST("/video/upload", videos.Upload)
		api.GET("/video/stream/:videoId", videos.Stream)

		api.POST("/document/portfolio/upload", documents.UploadPortfolio)
		api.POST("/document/introduce/upload", documents.UploadIntroduce)
		api.POST("/document/analyze", documents.Analyze)
		api.GET("/document/list", documents.List)
		api.GET("/document/list/:type", documents.GetByType)
		api.GET("/document/status/check", documents.StatusCheck)
		api.DELETE("/document/:documentId", documents.Delete)

		api.POST("/feedback/analyze", feedback.Analyze)
		api.GET("/feedback/:interviewId", feedback.GetByInterview)
		api.GET("/feedback/detail/:videoId", feedback.GetDetail)
	}

	return r
}
