package services

import (
	"bytes"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockFileHeader(filename string, content []byte, contentType string) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, _ := writer.CreatePart(header)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(20 * 1024 * 1024)
	return form.File["file"][0]
}

func uploadFromHeader(t *testing.T, fh *multipart.FileHeader) *UploadFile {
	t.Helper()
	f, closer, err := UploadFileFromHeader(fh)
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })
	return f
}

func TestValidateUpload(t *testing.T) {
	pdf := append([]byte("%PDF-1.4\n"), make([]byte, 100)...)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 100)...)

	t.Run("Valid PDF", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("sutartis.pdf", pdf, "application/pdf"))
		assert.NoError(t, ValidateUpload(f))
		assert.Equal(t, "application/pdf", f.ContentType)
	})

	t.Run("Valid PNG", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("ekranas.png", png, "image/png"))
		assert.NoError(t, ValidateUpload(f))
	})

	t.Run("Valid DOCX", func(t *testing.T) {
		content := append([]byte("PK\x03\x04"), make([]byte, 100)...)
		f := uploadFromHeader(t, createMockFileHeader("pretenzija.docx", content, docxMimeType))
		assert.NoError(t, ValidateUpload(f))
	})

	t.Run("Content type parameters are stripped", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("sutartis.pdf", pdf, "application/pdf; charset=binary"))
		assert.NoError(t, ValidateUpload(f))
		assert.Equal(t, "application/pdf", f.ContentType)
	})

	t.Run("Missing content type is sniffed", func(t *testing.T) {
		f := &UploadFile{FileName: "be_tipo", Size: int64(len(pdf)), Body: bytes.NewReader(pdf)}
		require.NoError(t, ValidateUpload(f))
		assert.Equal(t, "application/pdf", f.ContentType)

		got, err := io.ReadAll(f.Body)
		require.NoError(t, err)
		assert.Equal(t, pdf, got)
	})

	t.Run("Octet stream is sniffed", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("nuotrauka", png, "application/octet-stream"))
		require.NoError(t, ValidateUpload(f))
		assert.Equal(t, "image/png", f.ContentType)
	})

	t.Run("Declared type is not trusted", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("sutartis.pdf", []byte("<html><script>alert(1)</script></html>"), "application/pdf"))
		err := ValidateUpload(f)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, err.Error(), "is not allowed")
	})

	t.Run("Declared type must match content", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("sutartis.pdf", png, "application/pdf"))
		err := ValidateUpload(f)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, err.Error(), "does not match declared type")
	})

	t.Run("File too large", func(t *testing.T) {
		f := &UploadFile{FileName: "large.pdf", ContentType: "application/pdf", Size: MaxUploadSize + 1, Body: bytes.NewReader(pdf)}
		err := ValidateUpload(f)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the maximum limit")
	})

	t.Run("Empty file", func(t *testing.T) {
		f := &UploadFile{FileName: "tuscias.pdf", ContentType: "application/pdf", Size: 0, Body: bytes.NewReader(nil)}
		assert.Error(t, ValidateUpload(f))
	})

	t.Run("Disallowed type", func(t *testing.T) {
		f := uploadFromHeader(t, createMockFileHeader("virusas.exe", []byte("MZ fake"), "application/x-msdownload"))
		err := ValidateUpload(f)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Contains(t, err.Error(), "is not allowed")
	})
}

func TestIsAllowedUploadType(t *testing.T) {
	assert.True(t, IsAllowedUploadType("image/webp"))
	assert.True(t, IsAllowedUploadType("application/msword"))
	assert.False(t, IsAllowedUploadType("text/html"))
	assert.False(t, IsAllowedUploadType(""))
}
