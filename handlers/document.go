package handlers

import (
	"fmt"
	"net/http"
	"teises_draugas_go/models"
	"teises_draugas_go/services"

	"github.com/labstack/echo/v4"
)

// UploadDocumentHandler stores an evidence file sent as multipart field "file".
func (h *Handler) UploadDocumentHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, services.NewValidationError("file", "is required"))
	}
	file, closer, err := services.UploadFileFromHeader(fh)
	if err != nil {
		return respondError(c, err)
	}
	defer closer.Close()

	meta := services.DocumentMetadata{
		DocumentType: models.DocumentType(c.FormValue("document_type")),
		Description:  c.FormValue("description"),
	}
	doc, err := h.svc.Documents.Upload(c.Request().Context(), c.Param("id"), user.ID, file, meta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ListDocumentsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	docs, err := h.svc.Documents.List(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) UpdateDocumentHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var meta services.DocumentMetadata
	if err := bindJSON(c, &meta); err != nil {
		return respondError(c, err)
	}

	doc, err := h.svc.Documents.UpdateMetadata(c.Param("id"), c.Param("docID"), user.ID, meta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// DownloadDocumentHandler redirects to a signed URL when storage offers one
// and streams the file otherwise.
func (h *Handler) DownloadDocumentHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	caseID, docID := c.Param("id"), c.Param("docID")

	url, err := h.svc.Documents.DownloadURL(ctx, caseID, docID, user.ID)
	if err != nil {
		return respondError(c, err)
	}
	if url != "" {
		return c.Redirect(http.StatusFound, url)
	}

	doc, body, err := h.svc.Documents.Open(ctx, caseID, docID, user.ID)
	if err != nil {
		return respondError(c, err)
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, doc.FileName))
	return c.Stream(http.StatusOK, doc.MimeType, body)
}
