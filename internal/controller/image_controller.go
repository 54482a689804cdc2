package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/lifecycle"
	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/utils/jwt"
	"umuhuza_backend/pkg/utils/storage"
	"umuhuza_backend/pkg/utils/validation"
)

// UploadListingImage stores a new image for an owned listing. The per-listing
// cap comes from the owner's plan; the first image becomes primary.
func UploadListingImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var listing model.Listing
	if err := database.GetDB().First(&listing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	if listing.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload images for this listing",
		})
	}

	maxImages := 5
	if sub, err := lifecycle.ActiveSubscription(database.GetDB(), claims.UserID, time.Now()); err == nil {
		maxImages = sub.PricingPlan.MaxImagesPerListing
	}

	var imageCount int64
	database.GetDB().Model(&model.ListingImage{}).
		Where("listing_id = ?", listing.ID).
		Count(&imageCount)

	if imageCount >= int64(maxImages) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "Maximum image limit reached for your plan",
			"max_limit": maxImages,
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	url, err := storage.UploadListingImage(file, listing.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	image := model.ListingImage{
		ListingID:    listing.ID,
		URL:          url,
		DisplayOrder: int(imageCount),
		IsPrimary:    imageCount == 0,
	}

	if err := database.GetDB().Create(&image).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save image record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}

// DeleteListingImage removes an image. When the primary is removed the first
// remaining image, if any, becomes primary so the one-primary invariant holds.
func DeleteListingImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var image model.ListingImage
	if err := database.GetDB().Preload("Listing").First(&image, c.Params("image_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	if image.Listing.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to delete this image",
		})
	}

	if err := storage.DeleteObject(image.URL); err != nil {
		log.Printf("Could not delete file %s: %v", image.URL, err)
	}

	wasPrimary := image.IsPrimary
	listingID := image.ListingID

	if err := database.GetDB().Delete(&image).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image",
		})
	}

	if wasPrimary {
		var first model.ListingImage
		if err := database.GetDB().Where("listing_id = ?", listingID).
			Order("display_order asc").First(&first).Error; err == nil {
			database.GetDB().Model(&first).Update("is_primary", true)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetPrimaryImage moves the primary flag to the given image.
func SetPrimaryImage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var image model.ListingImage
	if err := database.GetDB().Preload("Listing").First(&image, c.Params("image_id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}

	if image.Listing.UserID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to modify this listing",
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Model(&model.ListingImage{}).
		Where("listing_id = ?", image.ListingID).
		Update("is_primary", false).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update images",
		})
	}

	if err := tx.Model(&image).Update("is_primary", true).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not set primary image",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete the update",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Primary image updated",
	})
}
