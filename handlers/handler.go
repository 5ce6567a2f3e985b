package handlers

import (
	"errors"
	"log"
	"net/http"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"
	"teises_draugas_go/services"
	"teises_draugas_go/services/ai"

	"github.com/labstack/echo/v4"
)

// Handler serves the JSON API on top of the domain services.
type Handler struct {
	svc *services.Services
}

func New(svc *services.Services) *Handler {
	return &Handler{svc: svc}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// respondError maps service errors to HTTP statuses. Unknown errors are logged
// and reported as 500 without leaking the cause.
func respondError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	var ruleErr *services.BusinessRuleError
	var genErr *ai.GenerationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, errorBody{Error: validationErr.Message, Details: validationErr.Fields})
	case errors.Is(err, services.ErrCaseNotFound), errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidLogin):
		return c.JSON(http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.As(err, &ruleErr):
		return c.JSON(http.StatusConflict, errorBody{Error: ruleErr.Message})
	case errors.As(err, &genErr):
		log.Printf("[AI] Generation failed for %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusBadGateway, errorBody{Error: "AI service is unavailable, please try again later"})
	case errors.As(err, &httpErr):
		return err
	}

	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
}

// bindJSON decodes the request body. An empty body leaves the input at its zero value.
func bindJSON(c echo.Context, input any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, input); err != nil {
		return &services.ValidationError{
			Message: "Invalid request body",
			Fields:  map[string]string{"body": "must be valid JSON"},
		}
	}
	return nil
}

// currentUser returns the authenticated user. Routes are mounted behind
// RequireAuth so a missing user is a wiring mistake.
func currentUser(c echo.Context) (*models.User, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return user, nil
}
