package model

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type UserSubscription struct {
	gorm.Model
	UserID        uint               `json:"user_id" gorm:"index;not null"`
	PricingPlanID uint               `json:"pricing_plan_id" gorm:"not null"`
	Status        SubscriptionStatus `json:"status" gorm:"default:'active'"`
	ListingsUsed  int                `json:"listings_used" gorm:"default:0"`
	StartsAt      time.Time          `json:"starts_at" gorm:"not null"`
	ExpiresAt     time.Time          `json:"expires_at" gorm:"index;not null"`
	AutoRenew     bool               `json:"auto_renew" gorm:"default:false"`
	StripeSubID   string             `json:"stripe_subscription_id"`

	// Relations
	User        User        `json:"-" gorm:"foreignKey:UserID"`
	PricingPlan PricingPlan `json:"pricing_plan" gorm:"foreignKey:PricingPlanID"`
}

// IsCurrentlyActive reports whether the subscription can admit listings:
// status flag active AND the expiry timestamp not yet reached.
func (s *UserSubscription) IsCurrentlyActive(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.ExpiresAt)
}
