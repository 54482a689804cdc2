package controller

import (
	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
)

func ListCategories(c *fiber.Ctx) error {
	var categories []model.Category
	if err := database.GetDB().Where("is_active = ?", true).Order("name asc").
		Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch categories",
		})
	}

	return c.JSON(categories)
}

func GetCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := database.GetDB().Where("slug = ? AND is_active = ?", c.Params("slug"), true).
		First(&category).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	return c.JSON(category)
}
