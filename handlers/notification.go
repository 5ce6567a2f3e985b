package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type notificationList struct {
	Notifications any   `json:"notifications"`
	Unread        int64 `json:"unread"`
}

// ListNotificationsHandler returns the latest notifications.
// Query: unread=true, limit.
func (h *Handler) ListNotificationsHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.svc.Notifications.List(user.ID, c.QueryParam("unread") == "true", queryInt(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	unread, err := h.svc.Notifications.UnreadCount(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notificationList{Notifications: items, Unread: unread})
}

func (h *Handler) MarkNotificationReadHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.svc.Notifications.MarkAsRead(c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllNotificationsReadHandler(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.svc.Notifications.MarkAllAsRead(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
