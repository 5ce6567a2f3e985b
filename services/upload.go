package services

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// IsAllowedUploadType reports whether a MIME type is on the evidence allow-list.
func IsAllowedUploadType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp",
		"application/pdf", "application/msword", docxMimeType:
		return true
	}
	return false
}

// UploadFile is a file on its way into storage.
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadFileFromHeader opens a multipart file. The caller must close the returned closer.
func UploadFileFromHeader(fh *multipart.FileHeader) (*UploadFile, io.Closer, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	return &UploadFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, src, nil
}

// ValidateUpload checks size and type before anything is written. The type is
// always sniffed from the first bytes; a declared type must agree with it.
func ValidateUpload(f *UploadFile) error {
	if f.Size > MaxUploadSize {
		return NewValidationError("file", fmt.Sprintf("file size exceeds the maximum limit of %s", FormatFileSize(MaxUploadSize)))
	}
	if f.Size <= 0 {
		return NewValidationError("file", "file is empty")
	}

	buffered := bufio.NewReader(f.Body)
	head, _ := buffered.Peek(3072)
	f.Body = buffered

	contentType := sniffContentType(head, f.FileName)
	if !IsAllowedUploadType(contentType) {
		return NewValidationError("file", fmt.Sprintf("file type %q is not allowed", contentType))
	}

	declared := normalizeContentType(f.ContentType)
	if declared != "" && declared != "application/octet-stream" && declared != contentType {
		return NewValidationError("file", fmt.Sprintf("file content does not match declared type %q", declared))
	}
	f.ContentType = contentType
	return nil
}

// sniffContentType detects the type from content. Containers that cannot be
// told apart by their first bytes (zip, OLE) are resolved by extension.
func sniffContentType(head []byte, fileName string) string {
	detected := normalizeContentType(mimetype.Detect(head).String())
	switch detected {
	case "application/octet-stream", "application/zip", "application/x-ole-storage":
		if byExt := mimeTypeForExt(filepath.Ext(fileName)); byExt != "application/octet-stream" {
			return byExt
		}
	}
	return detected
}

func normalizeContentType(ct string) string {
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

func mimeTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".doc":
		return "application/msword"
	case ".docx":
		return docxMimeType
	}
	return "application/octet-stream"
}
