package handlers

import (
	"net/http"
	"teises_draugas_go/middleware"
	"teises_draugas_go/models"
	"teises_draugas_go/services"

	"github.com/labstack/echo/v4"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User *models.User `json:"user"`
}

// RegisterHandler creates a USER account and signs it in.
func (h *Handler) RegisterHandler(c echo.Context) error {
	var input services.RegisterInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}

	user, err := services.RegisterUser(h.svc.DB, input)
	if err != nil {
		return respondError(c, err)
	}

	session, err := services.CreateSession(h.svc.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, err)
	}
	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("USER_REGISTERED", user.ID, "self sign-up")

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// LoginHandler checks credentials and sets the session cookie.
func (h *Handler) LoginHandler(c echo.Context) error {
	var input loginInput
	if err := bindJSON(c, &input); err != nil {
		return respondError(c, err)
	}
	if input.Email == "" || input.Password == "" {
		return respondError(c, &services.ValidationError{
			Message: "Email and password are required",
			Fields:  map[string]string{"email": "is required", "password": "is required"},
		})
	}

	user, err := services.Authenticate(h.svc.DB, input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	session, err := services.CreateSession(h.svc.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, err)
	}
	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("LOGIN_SUCCESS", user.ID, c.RealIP())

	return c.JSON(http.StatusOK, authResponse{User: user})
}

// LogoutHandler drops the current session.
func (h *Handler) LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := services.DeleteSession(h.svc.DB, cookie.Value); err != nil {
			return respondError(c, err)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the signed-in user.
func (h *Handler) MeHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}
