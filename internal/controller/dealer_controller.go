package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/notification"
	"umuhuza_backend/pkg/utils/jwt"
	"umuhuza_backend/pkg/utils/storage"
)

type DealerApplicationInput struct {
	BusinessName    string `json:"business_name" validate:"required"`
	BusinessType    string `json:"business_type" validate:"required"`
	BusinessAddress string `json:"business_address"`
	BusinessPhone   string `json:"business_phone"`
	BusinessEmail   string `json:"business_email" validate:"omitempty,email"`
	TaxID           string `json:"tax_id"`
	BusinessLicense string `json:"business_license"`
}

type RejectApplicationInput struct {
	Reason string `json:"reason" validate:"required"`
}

func CreateDealerApplication(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(DealerApplicationInput)
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

	db := database.GetDB()

	var pending model.DealerApplication
	if err := db.Where("user_id = ? AND status = ?", claims.UserID, model.DealerApplicationPending).
		First(&pending).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already have a pending application",
		})
	}

	application := model.DealerApplication{
		UserID:          claims.UserID,
		BusinessName:    input.BusinessName,
		BusinessType:    input.BusinessType,
		BusinessAddress: input.BusinessAddress,
		BusinessPhone:   input.BusinessPhone,
		BusinessEmail:   input.BusinessEmail,
		TaxID:           input.TaxID,
		BusinessLicense: input.BusinessLicense,
		Status:          model.DealerApplicationPending,
	}

	if err := db.Create(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create application",
		})
	}

	notification.Notify(db, claims.UserID, "Application submitted",
		"Your dealer application is under review.", model.NotificationVerification)

	return c.Status(fiber.StatusCreated).JSON(application)
}

func GetMyDealerApplication(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var application model.DealerApplication
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Preload("Documents").
		Order("created_at desc").
		First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No application found",
		})
	}

	return c.JSON(application)
}

// UploadDealerDocument attaches a supporting document to the caller's pending
// application.
func UploadDealerDocument(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var application model.DealerApplication
	if err := database.GetDB().
		Where("user_id = ? AND status = ?", claims.UserID, model.DealerApplicationPending).
		First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No pending application found",
		})
	}

	docType := c.FormValue("doc_type")
	if docType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doc_type is required",
		})
	}

	file, err := c.FormFile("document")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	url, err := storage.UploadDealerDocument(file, application.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload document",
		})
	}

	document := model.DealerDocument{
		ApplicationID: application.ID,
		DocType:       docType,
		FileURL:       url,
	}

	if err := database.GetDB().Create(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save document",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

// ApproveDealerApplication is admin-only; approval promotes the applicant to
// the dealer role.
func ApproveDealerApplication(c *fiber.Ctx) error {
	db := database.GetDB()

	var application model.DealerApplication
	if err := db.First(&application, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Application not found",
		})
	}

	if application.Status != model.DealerApplicationPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Application already processed",
		})
	}

	now := time.Now()
	if err := db.Model(&application).Updates(map[string]interface{}{
		"status":      model.DealerApplicationApproved,
		"approved_at": now,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not approve application",
		})
	}

	if err := db.Model(&model.User{}).Where("id = ?", application.UserID).
		Update("role", model.RoleDealer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update user role",
		})
	}

	notification.Notify(db, application.UserID, "Application approved",
		"Congratulations! Your dealer application was approved.", model.NotificationVerification)

	return c.JSON(application)
}

func RejectDealerApplication(c *fiber.Ctx) error {
	input := new(RejectApplicationInput)
	if err := c.BodyParser(input); err != nil || input.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Rejection reason is required",
		})
	}

	db := database.GetDB()

	var application model.DealerApplication
	if err := db.First(&application, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Application not found",
		})
	}

	if application.Status != model.DealerApplicationPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Application already processed",
		})
	}

	if err := db.Model(&application).Updates(map[string]interface{}{
		"status":           model.DealerApplicationRejected,
		"rejection_reason": input.Reason,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reject application",
		})
	}

	notification.Notify(db, application.UserID, "Application rejected",
		"Your dealer application was rejected: "+input.Reason, model.NotificationVerification)

	return c.JSON(application)
}
