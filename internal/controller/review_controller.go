package controller

import (
	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/badge"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/notification"
	"umuhuza_backend/pkg/utils/jwt"
)

type ReviewInput struct {
	ReviewedUserID uint   `json:"reviewed_user_id" validate:"required"`
	ListingID      *uint  `json:"listing_id"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment"`
}

// ListUserReviews returns a user's visible reviews with the aggregate rating.
func ListUserReviews(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	var reviews []model.RatingReview
	if err := database.GetDB().
		Where("reviewed_user_id = ? AND is_visible = ?", userID, true).
		Preload("Reviewer").
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch reviews",
		})
	}

	var avgRating float64
	database.GetDB().Model(&model.RatingReview{}).
		Where("reviewed_user_id = ? AND is_visible = ?", userID, true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	return c.JSON(fiber.Map{
		"average_rating": avgRating,
		"total_reviews":  len(reviews),
		"reviews":        reviews,
	})
}

func CreateReview(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.ReviewedUserID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot review yourself",
		})
	}

	db := database.GetDB()

	var reviewed model.User
	if err := db.First(&reviewed, input.ReviewedUserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	review := model.RatingReview{
		ReviewerID:     claims.UserID,
		ReviewedUserID: input.ReviewedUserID,
		ListingID:      input.ListingID,
		Rating:         input.Rating,
		Comment:        input.Comment,
		IsVisible:      true,
	}

	if err := db.Create(&review).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already reviewed this user",
		})
	}

	notification.Notify(db, reviewed.ID, "New review",
		"You received a new review.", model.NotificationListing)

	// A fresh rating can push the seller over a badge threshold.
	badge.CheckAndAward(db, &reviewed)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review posted successfully",
		"review":  review,
	})
}
