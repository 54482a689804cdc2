package controller

import (
	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/notification"
	"umuhuza_backend/pkg/utils/jwt"
)

type ReportInput struct {
	ReportedUserID *uint            `json:"reported_user_id"`
	ListingID      *uint            `json:"listing_id"`
	ReportType     model.ReportType `json:"report_type" validate:"required,oneof=spam fraud inappropriate other"`
	ReportReason   string           `json:"report_reason" validate:"required"`
}

func CreateReport(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(ReportInput)
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

	if input.ReportedUserID != nil && *input.ReportedUserID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot report yourself",
		})
	}

	report := model.ReportMisconduct{
		ReporterID:     claims.UserID,
		ReportedUserID: input.ReportedUserID,
		ListingID:      input.ListingID,
		ReportType:     input.ReportType,
		ReportReason:   input.ReportReason,
	}

	if err := database.GetDB().Create(&report).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create report",
		})
	}

	notification.Notify(database.GetDB(), claims.UserID, "Report submitted",
		"Your report has been submitted and is under review.", model.NotificationReport)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report submitted successfully. We will review it shortly.",
		"report":  report,
	})
}

func ListMyReports(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var reports []model.ReportMisconduct
	if err := database.GetDB().Where("reporter_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch reports",
		})
	}

	return c.JSON(reports)
}

// GetReport returns a report to its reporter only.
func GetReport(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var report model.ReportMisconduct
	if err := database.GetDB().First(&report, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	if report.ReporterID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to view this report",
		})
	}

	return c.JSON(report)
}
