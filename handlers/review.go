package handlers

import (
	"net/http"
	"teises_draugas_go/services"

	"github.com/labstack/echo/v4"
)

// RequestReviewHandler orders a paid lawyer review of a case document.
func (h *Handler) RequestReviewHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.RequestReviewInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	review, err := h.svc.Reviews.Request(c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *Handler) ListCaseReviewsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reviews, err := h.svc.Reviews.ListForCase(c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// PendingReviewsHandler is the lawyer work queue, oldest first.
func (h *Handler) PendingReviewsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reviews, err := h.svc.Reviews.ListPending(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) ClaimReviewHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	review, err := h.svc.Reviews.Claim(c.Param("reviewID"), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) CompleteReviewHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.CompleteReviewInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	review, err := h.svc.Reviews.Complete(c.Param("reviewID"), user, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}
