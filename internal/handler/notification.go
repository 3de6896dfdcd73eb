package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/service"
)

// NotificationHandler serves the alert checks and the caller's notification
// inbox.
type NotificationHandler struct {
	Notifier *service.Notifier
	Log      logrus.FieldLogger
}

// NewNotificationHandler constructs a NotificationHandler and panics if the
// notifier is nil.
func NewNotificationHandler(notifier *service.Notifier, log logrus.FieldLogger) *NotificationHandler {
	if notifier == nil {
		panic("nil notifier passed to NewNotificationHandler")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NotificationHandler{Notifier: notifier, Log: log}
}

// CheckRevenueGoal handles POST /v1/alerts/revenue?month=YYYY-MM.  The
// month defaults to the current one.
func (h *NotificationHandler) CheckRevenueGoal(c echo.Context) error {
	month := strings.TrimSpace(c.QueryParam("month"))
	if month == "" {
		month = h.Notifier.CurrentMonth()
	}
	created, err := h.Notifier.CheckAndCreateRevenueNotifications(c.Request().Context(), month)
	if err != nil {
		return respondError(c, h.Log, "CheckRevenueGoal", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"month": month, "created": created})
}

// CheckCancellationRate handles POST /v1/alerts/cancellation.
func (h *NotificationHandler) CheckCancellationRate(c echo.Context) error {
	res, err := h.Notifier.CheckCancellationRate(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, "CheckCancellationRate", err)
	}
	return c.JSON(http.StatusOK, res)
}

// ListNotifications handles GET /v1/notifications?limit=N for the caller.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return respondError(c, h.Log, "ListNotifications", err)
	}
	items, err := h.Notifier.ListForUser(c.Request().Context(), userID, limit)
	if err != nil {
		return respondError(c, h.Log, "ListNotifications", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkNotificationRead handles POST /v1/notifications/:id/read.  Another
// user's notification is reported as not found.
func (h *NotificationHandler) MarkNotificationRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Notifier.MarkRead(c.Request().Context(), id, userID); err != nil {
		return respondError(c, h.Log, "MarkNotificationRead", err)
	}
	return c.NoContent(http.StatusNoContent)
}
