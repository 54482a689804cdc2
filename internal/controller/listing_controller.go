package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuhuza_backend/internal/lifecycle"
	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/utils/jwt"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type UpdateListingInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}

// lifecycleError maps the typed core failures onto HTTP responses. Anything
// unrecognized is an internal error; gorm details never reach the client.
func lifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing input",
		})
	case errors.Is(err, lifecycle.ErrNoActiveSubscription):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": "No active subscription found. Please subscribe to a plan.",
		})
	case errors.Is(err, lifecycle.ErrQuotaExceeded):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You have reached your listing limit. Please upgrade your plan.",
		})
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to perform this action",
		})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This action is not allowed in the listing's current state",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}

func CreateListing(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(lifecycle.ListingInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	listing, err := lifecycle.EvaluateAndCreate(database.GetDB(), &user, input)
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

// ListListings is the public search endpoint with category, price range,
// location and text filters plus pagination.
func ListListings(c *fiber.Ctx) error {
	db := database.GetDB().Model(&model.Listing{}).
		Where("status = ?", model.ListingStatusActive)

	if categoryID := c.QueryInt("category"); categoryID > 0 {
		db = db.Where("category_id = ?", categoryID)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			db = db.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			db = db.Where("price <= ?", v)
		}
	}
	if location := c.Query("location"); location != "" {
		db = db.Where("location ILIKE ?", "%"+location+"%")
	}
	if search := c.Query("search"); search != "" {
		db = db.Where("title ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	order := "created_at desc"
	switch c.Query("ordering") {
	case "price":
		order = "price asc"
	case "-price":
		order = "price desc"
	case "views":
		order = "views desc"
	}

	var total int64
	db.Count(&total)

	var listings []model.Listing
	if err := db.Preload("Category").Preload("Images").
		Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listings",
		})
	}

	return c.JSON(fiber.Map{
		"count":    total,
		"page":     page,
		"listings": listings,
	})
}

func GetFeaturedListings(c *fiber.Ctx) error {
	var listings []model.Listing
	if err := database.GetDB().
		Where("status = ? AND is_featured = ?", model.ListingStatusActive, true).
		Preload("Category").Preload("Images").
		Order("created_at desc").
		Limit(10).
		Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch featured listings",
		})
	}

	return c.JSON(listings)
}

// GetSimilarListings returns up to 6 active listings in the same category
// within ±30% of the price.
func GetSimilarListings(c *fiber.Ctx) error {
	var listing model.Listing
	if err := database.GetDB().First(&listing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	var similar []model.Listing
	if err := database.GetDB().
		Where("category_id = ? AND status = ? AND id != ? AND price BETWEEN ? AND ?",
			listing.CategoryID, model.ListingStatusActive, listing.ID,
			listing.Price*0.7, listing.Price*1.3).
		Preload("Category").Preload("Images").
		Order("created_at desc").
		Limit(6).
		Find(&similar).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch similar listings",
		})
	}

	return c.JSON(similar)
}

func GetListing(c *fiber.Ctx) error {
	var listing model.Listing
	if err := database.GetDB().
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.display_order ASC")
		}).
		Preload("User").
		First(&listing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	// Owner views are not counted.
	viewerID := uint(0)
	if claims, ok := c.Locals("user").(*jwt.Claims); ok {
		viewerID = claims.UserID
	}
	if viewerID != listing.UserID {
		database.GetDB().Model(&listing).UpdateColumn("views", gorm.Expr("views + 1"))
		listing.Views++
	}

	return c.JSON(fiber.Map{
		"listing": listing,
		"seller":  listing.User.GetPublicProfile(),
	})
}

func ListMyListings(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var listings []model.Listing
	if err := database.GetDB().
		Where("user_id = ? AND status != ?", claims.UserID, model.ListingStatusDeleted).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.display_order ASC")
		}).
		Order("created_at desc").
		Find(&listings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listings",
		})
	}

	return c.JSON(listings)
}

func UpdateListing(c *fiber.Ctx) error {
	input := new(UpdateListingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var listing model.Listing
	if err := database.GetDB().First(&listing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.Price != 0 {
		if input.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Price must be positive",
			})
		}
		updates["price"] = input.Price
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&listing).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update listing",
			})
		}
	}

	database.GetDB().Preload("Category").Preload("Images").First(&listing, listing.ID)
	return c.JSON(listing)
}

// transitionListing runs a state-machine event for the authenticated actor.
func transitionListing(c *fiber.Ctx, event lifecycle.Event) error {
	claims := c.Locals("user").(*jwt.Claims)

	var listing model.Listing
	if err := database.GetDB().First(&listing, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	var actor model.User
	if err := database.GetDB().First(&actor, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updated, err := lifecycle.Transition(database.GetDB(), &listing, event, &actor)
	if err != nil {
		return lifecycleError(c, err)
	}

	return c.JSON(updated)
}

func MarkListingSold(c *fiber.Ctx) error {
	return transitionListing(c, lifecycle.EventMarkSold)
}

func HideListing(c *fiber.Ctx) error {
	return transitionListing(c, lifecycle.EventHide)
}

func ReactivateListing(c *fiber.Ctx) error {
	return transitionListing(c, lifecycle.EventReactivate)
}

func DeleteListing(c *fiber.Ctx) error {
	return transitionListing(c, lifecycle.EventDelete)
}
