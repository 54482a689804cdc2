package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/utils/jwt"
)

func ListFavorites(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var favorites []model.Favorite
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Preload("Listing").
		Preload("Listing.Images").
		Order("created_at desc").
		Find(&favorites).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch favorites",
		})
	}

	return c.JSON(favorites)
}

// ToggleFavorite adds the listing to favorites, or removes it when already
// present.
func ToggleFavorite(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var listing model.Listing
	if err := database.GetDB().First(&listing, c.Params("listing_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	var favorite model.Favorite
	err := database.GetDB().Where("user_id = ? AND listing_id = ?", claims.UserID, listing.ID).
		First(&favorite).Error
	if err == nil {
		if err := database.GetDB().Delete(&favorite).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not remove favorite",
			})
		}
		return c.JSON(fiber.Map{
			"message":      "Removed from favorites",
			"is_favorited": false,
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not toggle favorite",
		})
	}

	favorite = model.Favorite{UserID: claims.UserID, ListingID: listing.ID}
	if err := database.GetDB().Create(&favorite).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add favorite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Added to favorites",
		"is_favorited": true,
	})
}
