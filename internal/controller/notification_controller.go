package controller

import (
	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/utils/jwt"
)

func ListNotifications(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var notifications []model.Notification
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Order("created_at desc").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch notifications",
		})
	}

	var unread int64
	database.GetDB().Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.UserID, false).
		Count(&unread)

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func MarkNotificationRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var notif model.Notification
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Params("id"), claims.UserID).
		First(&notif).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	if err := database.GetDB().Model(&notif).Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update notification",
		})
	}

	return c.JSON(notif)
}

func MarkAllNotificationsRead(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	if err := database.GetDB().Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", claims.UserID, false).
		Update("is_read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update notifications",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}
