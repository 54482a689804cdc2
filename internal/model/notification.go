package model

import "gorm.io/gorm"

type NotificationCategory string

const (
	NotificationListing      NotificationCategory = "listing"
	NotificationSubscription NotificationCategory = "subscription"
	NotificationPayment      NotificationCategory = "payment"
	NotificationVerification NotificationCategory = "verification"
	NotificationReport       NotificationCategory = "report"
	NotificationMessage      NotificationCategory = "message"
)

type Notification struct {
	gorm.Model
	UserID   uint                 `json:"user_id" gorm:"index;not null"`
	Title    string               `json:"title" gorm:"not null"`
	Message  string               `json:"message" gorm:"type:text"`
	Category NotificationCategory `json:"category" gorm:"not null"`
	IsRead   bool                 `json:"is_read" gorm:"default:false"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
