package models

import (
	"time"

	"github.com/google/uuid"
)

// Document types. An account holds at most one document per type; a new
// upload of the same type replaces the old file and row.
const (
	DocumentPortfolio = "portfolio"
	DocumentIntroduce = "introduce"
)

func ValidDocumentType(t string) bool {
	return t == DocumentPortfolio || t == DocumentIntroduce
}

type Document struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"accountId"`
	DocumentType  string    `json:"documentType"`
	FileName      string    `json:"fileName"`
	FilePath      string    `json:"filePath"`
	FileSize      int64     `json:"fileSize"`
	ExtractedText *string   `json:"extractedText,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

type Account struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
