package controller

import (
	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
)

func ListPlans(c *fiber.Ctx) error {
	var plans []model.PricingPlan
	if err := database.GetDB().Where("is_active = ?", true).Order("price asc").
		Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch pricing plans",
		})
	}

	return c.JSON(plans)
}
