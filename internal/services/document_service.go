package services

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"interview-media-backend/internal/agents"
	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/store"
)

type DocumentService struct {
	store      store.Store
	registry   *agents.Registry
	uploadRoot string
}

func NewDocumentService(st store.Store, registry *agents.Registry, uploadRoot string) *DocumentService {
	return &DocumentService{store: st, registry: registry, uploadRoot: uploadRoot}
}

// Upload stores a document of the given type, replacing any prior document
// of that type for the account: the old file is removed best-effort, the old
// row is deleted, then the new row is created.
func (s *DocumentService) Upload(account uuid.UUID, docType, fileName, absPath string, size int64) (*models.Document, error) {
	if !models.ValidDocumentType(docType) {
		return nil, apperr.New(apperr.InvalidInput, "document type must be portfolio or introduce")
	}

	existing, err := s.store.GetDocumentByType(account, docType)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		oldPath := s.absolute(existing.FilePath)
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove replaced document file %s: %v", oldPath, err)
		}
		if err := s.store.DeleteDocument(existing.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	doc := &models.Document{
		ID:           uuid.New(),
		AccountID:    account,
		DocumentType: docType,
		FileName:     fileName,
		FilePath:     s.relative(absPath),
		FileSize:     size,
	}
	if err := s.store.CreateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Analyze extracts the document's text through the PDF-reader agent and
// summarizes it. Extraction requires the agent; summarization is optional
// and degrades to an empty summary when no report builder is configured.
func (s *DocumentService) Analyze(ctx context.Context, account, documentID uuid.UUID) (*models.DocumentAnalysisResponse, error) {
	doc, err := s.resolveOwned(account, documentID)
	if err != nil {
		return nil, err
	}

	if s.registry.DocumentReader == nil {
		return nil, apperr.New(apperr.AnalysisUnavailable, "document analysis is not available yet")
	}

	extracted, err := s.registry.DocumentReader.ExtractDocument(ctx, s.absolute(doc.FilePath))
	if err != nil {
		return nil, apperr.Wrap(apperr.AnalysisFailed, "document extraction failed", err)
	}
	text := extracted.Text()

	if err := s.store.UpdateDocumentText(documentID, text); err != nil {
		return nil, err
	}

	analysis := models.DocumentAnalysis{KeyPoints: []string{}, Skills: []string{}}
	if s.registry.Report != nil {
		summary, err := s.registry.Report.SummarizeDocument(ctx, text)
		if err != nil {
			log.Printf("Warning: document summarization failed, returning raw text only: %v", err)
		} else {
			analysis = models.DocumentAnalysis{
				Summary:   summary.Summary,
				KeyPoints: summary.KeyPoints,
				Skills:    summary.Skills,
			}
		}
	}

	return &models.DocumentAnalysisResponse{
		DocumentID:    doc.ID,
		DocumentType:  doc.DocumentType,
		FileName:      doc.FileName,
		ExtractedText: text,
		Analysis:      analysis,
	}, nil
}

// List returns the account's documents grouped by type.
func (s *DocumentService) List(account uuid.UUID) (*models.DocumentListResponse, error) {
	documents, err := s.store.ListDocuments(account)
	if err != nil {
		return nil, err
	}
	resp := &models.DocumentListResponse{}
	for i := range documents {
		switch documents[i].DocumentType {
		case models.DocumentPortfolio:
			resp.Portfolio = &documents[i]
		case models.DocumentIntroduce:
			resp.Introduce = &documents[i]
		}
	}
	resp.HasBoth = resp.Portfolio != nil && resp.Introduce != nil
	return resp, nil
}

func (s *DocumentService) GetByType(account uuid.UUID, docType string) (*models.Document, error) {
	if !models.ValidDocumentType(docType) {
		return nil, apperr.New(apperr.InvalidInput, "document type must be portfolio or introduce")
	}
	doc, err := s.store.GetDocumentByType(account, docType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "document not found")
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) StatusCheck(account uuid.UUID) (*models.DocumentStatusResponse, error) {
	list, err := s.List(account)
	if err != nil {
		return nil, err
	}
	return &models.DocumentStatusResponse{
		HasPortfolio: list.Portfolio != nil,
		HasIntroduce: list.Introduce != nil,
		Ready:        list.HasBoth,
	}, nil
}

// Delete removes the document row and its file. A failed file removal is
// logged, never fatal.
func (s *DocumentService) Delete(account, documentID uuid.UUID) error {
	doc, err := s.resolveOwned(account, documentID)
	if err != nil {
		return err
	}
	path := s.absolute(doc.FilePath)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to remove document file %s: %v", path, err)
	}
	return s.store.DeleteDocument(documentID)
}

func (s *DocumentService) resolveOwned(account, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.store.GetDocument(documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "document not found")
		}
		return nil, err
	}
	if doc.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "document belongs to another account")
	}
	return doc, nil
}

func (s *DocumentService) absolute(relPath string) string {
	return filepath.Join(s.uploadRoot, filepath.FromSlash(relPath))
}

func (s *DocumentService) relative(absPath string) string {
	rel, err := filepath.Rel(s.uploadRoot, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}
