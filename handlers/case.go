package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"time"

	"github.com/labstack/echo/v4"
)

// CreateCaseHandler opens a new case in INTAKE.
func (h *Handler) CreateCaseHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.CreateCaseInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	created, err := h.svc.Cases.Create(user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListCasesHandler returns one page of the user's cases.
// Query: status, page, limit.
func (h *Handler) ListCasesHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	filter := services.CaseFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 10),
	}
	if status := c.QueryParam("status"); status != "" {
		s := models.CaseStatus(status)
		filter.Status = &s
	}

	result, err := h.svc.Cases.List(user.ID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetCaseHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	found, err := h.svc.Cases.Get(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// UpdateCaseHandler applies a partial update, including status changes.
func (h *Handler) UpdateCaseHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.UpdateCaseInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	updated, err := h.svc.Cases.Update(c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCaseHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.svc.Cases.Delete(c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CaseTimelineHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	events, err := h.svc.Cases.ListTimeline(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// ExportCasesHandler streams the user's cases as an XLSX workbook.
func (h *Handler) ExportCasesHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	buf, err := services.ExportCasesXLSX(h.svc.DB, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("bylos_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
