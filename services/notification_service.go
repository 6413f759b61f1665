package services

import (
	"log"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Notify records a notification for a user. Fire-and-forget from the
// mutation's point of view: a failed insert is logged, never surfaced.
func (s *NotificationService) Notify(userID, ntype, title, message string, relatedID *string) {
	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("❌ [NOTIFY] failed to record %s notification for %s: %v", ntype, userID, err)
	}
}

// ListForViewer returns the viewer's notifications, newest first.
func (s *NotificationService) ListForViewer(viewer *models.Viewer) ([]models.Notification, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	var notifications []models.Notification
	if err := s.DB.Where("user_id = ?", viewer.UserID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one of the viewer's notifications as read.
func (s *NotificationService) MarkRead(viewer *models.Viewer, id string) error {
	if viewer == nil {
		return ErrUnauthenticated
	}
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, viewer.UserID).
		Update("is_read", true).Error
}

// MarkAllRead flags every unread notification of the viewer as read.
func (s *NotificationService) MarkAllRead(viewer *models.Viewer) error {
	if viewer == nil {
		return ErrUnauthenticated
	}
	return s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", viewer.UserID, false).
		Update("is_read", true).Error
}

// ===== Fiber handlers =====

func (s *NotificationService) GetNotifications(c *fiber.Ctx) error {
	notifications, err := s.ListForViewer(viewerFromCtx(c))
	if err != nil {
		return preconditionError(c, err, "failed to fetch notifications")
	}
	return c.JSON(notifications)
}

func (s *NotificationService) MarkNotificationRead(c *fiber.Ctx) error {
	if err := s.MarkRead(viewerFromCtx(c), c.Params("id")); err != nil {
		return preconditionError(c, err, "failed to mark notification read")
	}
	return c.JSON(fiber.Map{"message": "notification marked read"})
}

func (s *NotificationService) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.MarkAllRead(viewerFromCtx(c)); err != nil {
		return preconditionError(c, err, "failed to mark notifications read")
	}
	return c.JSON(fiber.Map{"message": "all notifications marked read"})
}
