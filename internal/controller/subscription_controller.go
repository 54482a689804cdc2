package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/lifecycle"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/utils/jwt"
)

// GetMySubscription returns the caller's currently active subscription with
// remaining quota. Expiry is evaluated lazily by the lookup.
func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	sub, err := lifecycle.ActiveSubscription(database.GetDB(), claims.UserID, time.Now())
	if err != nil {
		if errors.Is(err, lifecycle.ErrNoActiveSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No active subscription found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription",
		})
	}

	return c.JSON(fiber.Map{
		"subscription":    sub,
		"remaining_quota": lifecycle.RemainingQuota(sub, &sub.PricingPlan),
	})
}
