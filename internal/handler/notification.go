package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/repository"
)

// NotificationHandler serves a customer's in-app inbox.
type NotificationHandler struct {
	Notifs *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
	if n == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifs: n}
}

type notificationResp struct {
	ID       uint64 `json:"id"`
	Message  string `json:"message"`
	IsRead   bool   `json:"is_read"`
	DateSent string `json:"date_sent"`
}

// List handles GET /v1/notifications.  Listing marks everything read;
// the response still shows each item's pre-listing read flag so clients
// can highlight what was new.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	notes, err := h.Notifs.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	items := make([]notificationResp, 0, len(notes))
	for _, n := range notes {
		items = append(items, notificationResp{
			ID:       n.ID,
			Message:  n.Message,
			IsRead:   n.IsRead,
			DateSent: n.DateSent.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UnreadCount handles GET /v1/notifications/unread-count, the badge
// counter.  It does not mark anything read.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.Notifs.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count notifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}
