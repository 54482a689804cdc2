package model

import (
	"time"

	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodWallet      PaymentMethod = "wallet"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	gorm.Model
	UserID        uint          `json:"user_id" gorm:"index;not null"`
	PricingPlanID uint          `json:"pricing_plan_id" gorm:"not null"`
	ListingID     *uint         `json:"listing_id"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"default:'BIF'"`
	Method        PaymentMethod `json:"payment_method" gorm:"not null"`
	Status        PaymentStatus `json:"payment_status" gorm:"default:'pending'"`
	PaymentRef    string        `json:"payment_ref" gorm:"uniqueIndex"`
	PhoneNumber   string        `json:"phone_number"`
	ConfirmedAt   *time.Time    `json:"confirmed_at"`

	// Relations
	User        User        `json:"-" gorm:"foreignKey:UserID"`
	PricingPlan PricingPlan `json:"pricing_plan" gorm:"foreignKey:PricingPlanID"`
	Listing     *Listing    `json:"-" gorm:"foreignKey:ListingID"`
}
