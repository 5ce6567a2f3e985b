package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"teises_draugas_go/models"
	"time"

	"gorm.io/gorm"
)

type DocumentService struct {
	DB      *gorm.DB
	Storage StorageProvider
	Now     func() time.Time
}

func NewDocumentService(db *gorm.DB, storage StorageProvider) *DocumentService {
	return &DocumentService{DB: db, Storage: storage, Now: time.Now}
}

// DocumentMetadata is the editable part of an evidence document.
type DocumentMetadata struct {
	DocumentType models.DocumentType `json:"document_type"`
	Description  string              `json:"description" validate:"max=1000"`
}

// Upload validates the file, writes it under the case prefix and records it.
// A missing document type is stored as OTHER.
func (s *DocumentService) Upload(ctx context.Context, caseID, userID string, file *UploadFile, meta DocumentMetadata) (*models.Document, error) {
	c, err := findOwnedCase(s.DB, caseID, userID)
	if err != nil {
		return nil, err
	}
	if err := ValidateUpload(file); err != nil {
		return nil, err
	}
	if err := ValidateStruct(meta); err != nil {
		return nil, err
	}
	if meta.DocumentType == "" {
		meta.DocumentType = models.DocumentOther
	}
	if !meta.DocumentType.Valid() {
		return nil, NewValidationError("document_type", fmt.Sprintf("unknown value %q", string(meta.DocumentType)))
	}

	key := GenerateCaseDocumentKey(c.ID, file.FileName, s.Now())
	stored, err := s.Storage.Put(ctx, key, file.Body, file.ContentType, file.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.Document{
		CaseID:       c.ID,
		FileName:     file.FileName,
		StorageKey:   stored.Key,
		FileURL:      stored.URL,
		FileSize:     stored.FileSize,
		MimeType:     file.ContentType,
		DocumentType: meta.DocumentType,
		Description:  meta.Description,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		return addTimelineEvent(tx, c.ID, timelineEntry{
			Type:        models.EventDocumentUploaded,
			Title:       "Dokumentas įkeltas",
			Description: fmt.Sprintf("Įkeltas dokumentas: %s", doc.FileName),
			Icon:        "file-up",
			Color:       "blue",
			DocumentID:  &doc.ID,
		})
	})
	if err != nil {
		if delErr := s.Storage.Delete(ctx, stored.Key); delErr != nil {
			log.Printf("[STORAGE] Failed to remove orphaned file %s: %v", stored.Key, delErr)
		}
		return nil, err
	}
	return doc, nil
}

// List returns the case documents, newest upload first.
func (s *DocumentService) List(caseID, userID string) ([]models.Document, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var documents []models.Document
	if err := s.DB.Where("case_id = ?", caseID).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch case documents: %w", err)
	}
	return documents, nil
}

func (s *DocumentService) find(caseID, documentID, userID string) (*models.Document, error) {
	if _, err := findOwnedCase(s.DB, caseID, userID); err != nil {
		return nil, err
	}
	var doc models.Document
	if err := s.DB.Where("id = ? AND case_id = ?", documentID, caseID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &doc, nil
}

// UpdateMetadata changes the type and description. The file is never replaced.
func (s *DocumentService) UpdateMetadata(caseID, documentID, userID string, meta DocumentMetadata) (*models.Document, error) {
	if err := ValidateStruct(meta); err != nil {
		return nil, err
	}
	if meta.DocumentType != "" && !meta.DocumentType.Valid() {
		return nil, NewValidationError("document_type", fmt.Sprintf("unknown value %q", string(meta.DocumentType)))
	}

	doc, err := s.find(caseID, documentID, userID)
	if err != nil {
		return nil, err
	}

	doc.Description = meta.Description
	if meta.DocumentType != "" {
		doc.DocumentType = meta.DocumentType
	}
	if err := s.DB.Model(doc).Select("description", "document_type").Updates(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

// Open returns the stored file. The caller must close the reader.
func (s *DocumentService) Open(ctx context.Context, caseID, documentID, userID string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.find(caseID, documentID, userID)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := s.Storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, body, nil
}

// DownloadURL returns a short-lived link when the storage backend supports it.
func (s *DocumentService) DownloadURL(ctx context.Context, caseID, documentID, userID string) (string, error) {
	doc, err := s.find(caseID, documentID, userID)
	if err != nil {
		return "", err
	}
	return s.Storage.SignedURL(ctx, doc.StorageKey, 15*time.Minute)
}
