// Package badge awards user badges from activity thresholds. Awards are
// idempotent: re-awarding a held badge type only refreshes its expiry.
package badge

import (
	"log"
	"time"

	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/notification"
)

const TieredBadgeLifetimeDays = 365

const (
	TrustedSellerMinListings = 5
	TrustedSellerMinRating   = 4.0
	TopDealerMinListings     = 10
)

// BadgesFor is the pure threshold rule: which badge types the given activity
// snapshot earns. Verification earns the verified badge; sellers with enough
// active listings and rating earn trusted_seller; dealers with enough active
// listings earn top_dealer.
func BadgesFor(role model.UserRole, emailVerified, phoneVerified bool, activeListings int64, avgRating float64) []model.BadgeType {
	var earned []model.BadgeType

	if emailVerified && phoneVerified {
		earned = append(earned, model.BadgeVerified)
	}
	if role == model.RoleSeller && activeListings >= TrustedSellerMinListings && avgRating >= TrustedSellerMinRating {
		earned = append(earned, model.BadgeTrustedSeller)
	}
	if role == model.RoleDealer && activeListings >= TopDealerMinListings {
		earned = append(earned, model.BadgeTopDealer)
	}
	return earned
}

// Expiry returns the expiry for a badge type; the verified badge never
// expires.
func Expiry(badgeType model.BadgeType, now time.Time) *time.Time {
	if badgeType == model.BadgeVerified {
		return nil
	}
	expires := now.AddDate(0, 0, TieredBadgeLifetimeDays)
	return &expires
}

// Award grants a badge, updating only the expiry when the user already holds
// the type.
func Award(db *gorm.DB, userID uint, badgeType model.BadgeType) error {
	now := time.Now()

	var existing model.UserBadge
	err := db.Where("user_id = ? AND badge_type = ?", userID, badgeType).First(&existing).Error
	if err == nil {
		return db.Model(&existing).Update("expires_at", Expiry(badgeType, now)).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return db.Create(&model.UserBadge{
		UserID:    userID,
		BadgeType: badgeType,
		ExpiresAt: Expiry(badgeType, now),
	}).Error
}

// CheckAndAward recomputes the user's activity snapshot and grants whatever
// the thresholds earn. Completing verification also sets is_verified and
// emits the verification notification.
func CheckAndAward(db *gorm.DB, user *model.User) {
	var activeListings int64
	db.Model(&model.Listing{}).
		Where("user_id = ? AND status = ?", user.ID, model.ListingStatusActive).
		Count(&activeListings)

	var avgRating float64
	db.Model(&model.RatingReview{}).
		Where("reviewed_user_id = ? AND is_visible = ?", user.ID, true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	for _, badgeType := range BadgesFor(user.Role, user.EmailVerified, user.PhoneVerified, activeListings, avgRating) {
		if badgeType == model.BadgeVerified && !user.IsVerified {
			if err := db.Model(user).Update("is_verified", true).Error; err != nil {
				log.Printf("Could not mark user %d verified: %v", user.ID, err)
				continue
			}
			user.IsVerified = true
			notification.NotifyVerificationComplete(db, user.ID)
		}
		if err := Award(db, user.ID, badgeType); err != nil {
			log.Printf("Could not award badge %s to user %d: %v", badgeType, user.ID, err)
		}
	}
}
