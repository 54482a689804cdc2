// Package lifecycle holds the subscription-gated listing rule set: admission
// of new listings against plan quotas, the listing status state machine, and
// the quota bookkeeping shared by both.
package lifecycle

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/notification"
)

var (
	ErrNoActiveSubscription = errors.New("no currently active subscription")
	ErrQuotaExceeded        = errors.New("listing quota exceeded")
	ErrInvalidInput         = errors.New("invalid listing input")
	ErrForbidden            = errors.New("actor may not perform this transition")
	ErrInvalidTransition    = errors.New("event not legal from current state")
)

var validate = validator.New()

type ListingInput struct {
	CategoryID  uint           `json:"category_id" validate:"required"`
	Title       string         `json:"title" validate:"required,min=3,max=200"`
	Description string         `json:"description" validate:"required"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Currency    model.Currency `json:"currency"`
	Location    string         `json:"location" validate:"required"`
}

// EvaluateAdmission applies the pure admission rules: the subscription must be
// currently active (status flag AND expiry timestamp) and must have quota
// headroom. It touches no storage so the rules stay testable in isolation.
func EvaluateAdmission(sub *model.UserSubscription, plan *model.PricingPlan, now time.Time) error {
	if sub == nil || !sub.IsCurrentlyActive(now) {
		return ErrNoActiveSubscription
	}
	if sub.ListingsUsed >= plan.MaxListings {
		return ErrQuotaExceeded
	}
	return nil
}

// RemainingQuota returns how many more listings the subscription admits.
func RemainingQuota(sub *model.UserSubscription, plan *model.PricingPlan) int {
	remaining := plan.MaxListings - sub.ListingsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ActiveSubscription loads the user's newest active subscription together with
// its plan. Expiry is evaluated lazily here: a row whose expiry timestamp has
// passed is flipped to expired before the lookup result is returned.
func ActiveSubscription(db *gorm.DB, userID uint, now time.Time) (*model.UserSubscription, error) {
	db.Model(&model.UserSubscription{}).
		Where("user_id = ? AND status = ? AND expires_at <= ?", userID, model.SubscriptionStatusActive, now).
		Update("status", model.SubscriptionStatusExpired)

	var sub model.UserSubscription
	err := db.Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Preload("PricingPlan").
		Order("expires_at desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &sub, nil
}

// consumeQuotaSlot takes one quota slot with a single conditional UPDATE so
// that concurrent creations against the same subscription serialize at the
// storage layer. Zero rows affected means the quota race was lost.
func consumeQuotaSlot(tx *gorm.DB, subID uint, maxListings int, now time.Time) error {
	res := tx.Model(&model.UserSubscription{}).
		Where("id = ? AND status = ? AND listings_used < ? AND expires_at > ?",
			subID, model.SubscriptionStatusActive, maxListings, now).
		UpdateColumn("listings_used", gorm.Expr("listings_used + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// releaseQuotaSlot gives a slot back, never below zero.
func releaseQuotaSlot(tx *gorm.DB, subID uint) error {
	return tx.Model(&model.UserSubscription{}).
		Where("id = ? AND listings_used > 0", subID).
		UpdateColumn("listings_used", gorm.Expr("listings_used - 1")).Error
}

// EvaluateAndCreate admits a new listing for the user. On success the listing
// is persisted already active, its expiry set from the plan duration, and one
// quota slot is consumed, all inside one transaction. Role promotion and the
// "listing created" notification run after commit.
func EvaluateAndCreate(db *gorm.DB, user *model.User, input *ListingInput) (*model.Listing, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidInput
	}

	var category model.Category
	if err := db.Where("id = ? AND is_active = ?", input.CategoryID, true).First(&category).Error; err != nil {
		return nil, ErrInvalidInput
	}

	now := time.Now()

	sub, err := ActiveSubscription(db, user.ID, now)
	if err != nil {
		return nil, err
	}
	if err := EvaluateAdmission(sub, &sub.PricingPlan, now); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = model.CurrencyBIF
	}

	listing := model.Listing{
		UserID:      user.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currency,
		Location:    input.Location,
		Status:      model.ListingStatusActive,
		IsFeatured:  sub.PricingPlan.IsFeatured,
		ExpiresAt:   now.AddDate(0, 0, sub.PricingPlan.DurationDays),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		return consumeQuotaSlot(tx, sub.ID, sub.PricingPlan.MaxListings, now)
	})
	if err != nil {
		return nil, err
	}

	afterCreate(db, user, &listing)

	db.Preload("Category").Preload("Images").First(&listing, listing.ID)
	return &listing, nil
}

// afterCreate runs the post-commit hooks in a fixed order: first-listing role
// promotion, then the fire-and-forget notification. Neither may fail the
// creation that already committed.
func afterCreate(db *gorm.DB, user *model.User, listing *model.Listing) {
	if user.Role == model.RoleBuyer {
		var count int64
		db.Model(&model.Listing{}).Where("user_id = ?", user.ID).Count(&count)
		if count == 1 {
			if err := db.Model(user).Update("role", model.RoleSeller).Error; err != nil {
				log.Printf("Could not promote user %d to seller: %v", user.ID, err)
			} else {
				user.Role = model.RoleSeller
			}
		}
	}

	notification.Notify(db, user.ID, "Listing published",
		"Your listing \""+listing.Title+"\" is now live.", model.NotificationListing)
}
