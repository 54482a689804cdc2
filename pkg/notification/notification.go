// Package notification persists in-app notifications. Dispatch is
// fire-and-forget: failures are logged and never propagated, so a broken
// notification write cannot roll back the operation that triggered it.
package notification

import (
	"log"

	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
)

func Notify(db *gorm.DB, userID uint, title, message string, category model.NotificationCategory) {
	n := model.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	if err := db.Create(&n).Error; err != nil {
		log.Printf("Could not create notification for user %d: %v", userID, err)
	}
}

// NotifyVerificationComplete is sent once both contact channels are verified.
func NotifyVerificationComplete(db *gorm.DB, userID uint) {
	Notify(db, userID, "Account verified",
		"Your email and phone number are verified. You now have a verified badge.",
		model.NotificationVerification)
}
