package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
)

type DocumentHandler struct {
	documents  *services.DocumentService
	uploadRoot string
}

func NewDocumentHandler(documents *services.DocumentService, uploadRoot string) *DocumentHandler {
	return &DocumentHandler{documents: documents, uploadRoot: uploadRoot}
}

// UploadPortfolio godoc
// @Summary     Upload a portfolio document
// @Tags        document
// @Accept      multipart/form-data
// @Produce     json
// @Param       document formData file true "PDF file"
// @Success     201 {object} models.Envelope
// @Failure     400 {object} models.Envelope
// @Router      /document/portfolio/upload [post]
func (h *DocumentHandler) UploadPortfolio(c *gin.Context) {
	h.upload(c, models.DocumentPortfolio)
}

func (h *DocumentHandler) UploadIntroduce(c *gin.Context) {
	h.upload(c, models.DocumentIntroduce)
}

func (h *DocumentHandler) upload(c *gin.Context, docType string) {
	file, err := c.FormFile("document")
	if err != nil {
		if isBodyTooLarge(err) {
			respondTooLarge(c)
			return
		}
		respondInvalid(c, "document file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		respondError(c, apperr.New(apperr.UploadRejected, "only PDF files are accepted"))
		return
	}

	absPath := filepath.Join(h.uploadRoot, "documents",
		fmt.Sprintf("%s_%s.pdf", docType, uuid.New().String()))
	if err := c.SaveUploadedFile(file, absPath); err != nil {
		if isBodyTooLarge(err) {
			respondTooLarge(c)
			return
		}
		respondError(c, apperr.Wrap(apperr.Internal, "failed to store upload", err))
		return
	}

	doc, err := h.documents.Upload(middleware.AccountID(c), docType, file.Filename, absPath, file.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "document uploaded", doc)
}

// Analyze godoc
// @Summary     Extract and summarize a document
// @Tags        document
// @Accept      json
// @Produce     json
// @Param       request body models.AnalyzeDocumentRequest true "Document id"
// @Success     200 {object} models.Envelope
// @Failure     503 {object} models.Envelope
// @Router      /document/analyze [post]
func (h *DocumentHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "documentId is required")
		return
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		respondInvalid(c, "invalid document id")
		return
	}

	analysis, err := h.documents.Analyze(c.Request.Context(), middleware.AccountID(c), documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "document analyzed", analysis)
}

func (h *DocumentHandler) List(c *gin.Context) {
	list, err := h.documents.List(middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", list)
}

func (h *DocumentHandler) GetByType(c *gin.Context) {
	doc, err := h.documents.GetByType(middleware.AccountID(c), c.Param("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", doc)
}

func (h *DocumentHandler) StatusCheck(c *gin.Context) {
	status, err := h.documents.StatusCheck(middleware.AccountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "", status)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		respondInvalid(c, "invalid document id")
		return
	}

	if err := h.documents.Delete(middleware.AccountID(c), documentID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "document deleted", nil)
}
