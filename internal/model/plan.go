package model

import "gorm.io/gorm"

// PricingPlan is the purchasable tier catalog. Rows are seeded at startup and
// treated as immutable once a subscription references them.
type PricingPlan struct {
	gorm.Model
	Name                string  `json:"name" gorm:"uniqueIndex;not null"`
	Description         string  `json:"description"`
	Price               float64 `json:"price" gorm:"not null"`
	Currency            string  `json:"currency" gorm:"default:'BIF'"`
	DurationDays        int     `json:"duration_days" gorm:"not null"`
	MaxListings         int     `json:"max_listings" gorm:"not null"`
	MaxImagesPerListing int     `json:"max_images_per_listing" gorm:"not null"`
	IsFeatured          bool    `json:"is_featured" gorm:"default:false"`
	IsActive            bool    `json:"is_active" gorm:"default:true"`
	StripeProductID     string  `json:"stripe_product_id"`
	StripePriceID       string  `json:"stripe_price_id"`

	UserSubscriptions []UserSubscription `json:"-" gorm:"foreignKey:PricingPlanID"`
}

// IsFree reports whether the plan is the zero-price tier assigned at
// registration.
func (p *PricingPlan) IsFree() bool {
	return p.Price == 0
}
