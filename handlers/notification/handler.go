package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillora/skillora-api/model"
	"github.com/skillora/skillora-api/services"
	"github.com/skillora/skillora-api/utils/middleware"
	"github.com/skillora/skillora-api/utils/response"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications returns the user's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	opts := services.ListOptions{
		UserID:     userID,
		UnreadOnly: c.QueryBool("unread_only", false),
		Category:   c.Query("category"),
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	}

	notifications, total, err := h.notifications.ListByUser(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	items := make([]model.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, notifications[i].ToResponse())
	}

	return response.Paginated(c, items, response.CalculatePagination(page, perPage, total))
}

// UnreadCount returns the count of unread notifications
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	count, err := h.notifications.UnreadCount(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, fiber.Map{"unread": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || notificationID == 0 {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification read")
	}

	return response.SuccessWithMessage(c, "Notification marked read", nil)
}

// MarkAllRead marks every unread notification as read
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	updated, err := h.notifications.MarkAllRead(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.SuccessWithMessage(c, "Notifications marked read", fiber.Map{"updated": updated})
}
