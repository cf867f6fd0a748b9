package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/core/ports"
)

// NotificationHandler serves the caller's own notifications.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /notifications.
//
// @Summary      Recent notifications
// @Description  The 20 most recent, newest first.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Notification
// @Failure      401  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	ns, err := h.service.List(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ns)
}

// UnreadCount handles GET /notifications/unread-count.
//
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Failure      401  {object}  map[string]string
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	n, err := h.service.UnreadCount(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Count: n})
}

// MarkRead handles PATCH /notifications/:id/read.
//
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  domain.Notification
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkRead(c.Request().Context(), p.UserID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead handles PATCH /notifications/read-all.
//
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  markAllReadResponse
// @Failure      401  {object}  map[string]string
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkAllRead(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markAllReadResponse{Updated: n})
}
