package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentScreenshot     DocumentType = "SCREENSHOT"
	DocumentContract       DocumentType = "CONTRACT"
	DocumentInvoice        DocumentType = "INVOICE"
	DocumentCorrespondence DocumentType = "CORRESPONDENCE"
	DocumentPhotoEvidence  DocumentType = "PHOTO_EVIDENCE"
	DocumentIdentity       DocumentType = "IDENTITY"
	DocumentBankStatement  DocumentType = "BANK_STATEMENT"
	DocumentCourtDocument  DocumentType = "COURT_DOCUMENT"
	DocumentOther          DocumentType = "OTHER"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentScreenshot, DocumentContract, DocumentInvoice, DocumentCorrespondence, DocumentPhotoEvidence,
		DocumentIdentity, DocumentBankStatement, DocumentCourtDocument, DocumentOther:
		return true
	}
	return false
}

// Document is an evidence file attached to a case. The file itself never
// changes after upload, only the type and description can be edited.
type Document struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"uploaded_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`

	FileName     string       `gorm:"not null" json:"file_name"`
	StorageKey   string       `gorm:"not null" json:"storage_key"`
	FileURL      string       `json:"file_url,omitempty"`
	FileSize     int64        `gorm:"not null" json:"file_size"`
	MimeType     string       `gorm:"not null" json:"mime_type"`
	DocumentType DocumentType `gorm:"not null;default:OTHER" json:"document_type"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DocumentType == "" {
		d.DocumentType = DocumentOther
	}
	return nil
}

func (Document) TableName() string {
	return "documents"
}
