package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"umuhuza_backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.PricingPlan{},
		&model.UserSubscription{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Notification{},
	))
	return db
}

func seedSellerWithPlan(t *testing.T, db *gorm.DB, maxListings int) (*model.User, *model.UserSubscription) {
	t.Helper()

	user := model.User{
		Email:       "seller@test.bi",
		PhoneNumber: "+25779000001",
		Password:    "hashed",
		FirstName:   "Test",
		LastName:    "Seller",
		Role:        model.RoleBuyer,
	}
	require.NoError(t, db.Create(&user).Error)

	category := model.Category{Name: "Vehicles", Slug: "vehicles", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	plan := model.PricingPlan{
		Name:                "Test Plan",
		DurationDays:        30,
		MaxListings:         maxListings,
		MaxImagesPerListing: 5,
		IsActive:            true,
	}
	require.NoError(t, db.Create(&plan).Error)

	now := time.Now()
	sub := model.UserSubscription{
		UserID:        user.ID,
		PricingPlanID: plan.ID,
		Status:        model.SubscriptionStatusActive,
		StartsAt:      now,
		ExpiresAt:     now.AddDate(0, 0, plan.DurationDays),
	}
	require.NoError(t, db.Create(&sub).Error)

	return &user, &sub
}

func listingInput(title string) *ListingInput {
	return &ListingInput{
		CategoryID:  1,
		Title:       title,
		Description: "A test listing",
		Price:       1000,
		Location:    "Bujumbura",
	}
}

// The single-slot plan walk-through: first create succeeds and consumes the
// slot, second create loses the conditional update and leaves no trace.
func TestEvaluateAndCreateQuotaExhaustion(t *testing.T) {
	db := newTestDB(t)
	user, sub := seedSellerWithPlan(t, db, 1)

	listing, err := EvaluateAndCreate(db, user, listingInput("Toyota Corolla"))
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusActive, listing.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), listing.ExpiresAt, time.Minute)

	var fresh model.UserSubscription
	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 1, fresh.ListingsUsed)

	// First listing promotes the buyer.
	var owner model.User
	require.NoError(t, db.First(&owner, user.ID).Error)
	assert.Equal(t, model.RoleSeller, owner.Role)

	_, err = EvaluateAndCreate(db, user, listingInput("Nissan Patrol"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var listingCount int64
	db.Model(&model.Listing{}).Where("user_id = ?", user.ID).Count(&listingCount)
	assert.Equal(t, int64(1), listingCount)

	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 1, fresh.ListingsUsed)
}

func TestEvaluateAndCreateExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	user, sub := seedSellerWithPlan(t, db, 5)

	require.NoError(t, db.Model(sub).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err := EvaluateAndCreate(db, user, listingInput("Stale listing"))
	assert.ErrorIs(t, err, ErrNoActiveSubscription)

	// The lazy lookup flipped the lapsed row.
	var fresh model.UserSubscription
	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, model.SubscriptionStatusExpired, fresh.Status)
}

// consumeQuotaSlot's zero-rows contract: a full or lapsed subscription loses
// the conditional update and surfaces ErrQuotaExceeded.
func TestConsumeQuotaSlotRowsAffectedContract(t *testing.T) {
	db := newTestDB(t)
	_, sub := seedSellerWithPlan(t, db, 2)
	now := time.Now()

	require.NoError(t, consumeQuotaSlot(db, sub.ID, 2, now))
	require.NoError(t, consumeQuotaSlot(db, sub.ID, 2, now))
	assert.ErrorIs(t, consumeQuotaSlot(db, sub.ID, 2, now), ErrQuotaExceeded)

	var fresh model.UserSubscription
	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 2, fresh.ListingsUsed)

	// Past the expiry timestamp the update matches no row either.
	require.NoError(t, db.Model(&fresh).Updates(map[string]interface{}{
		"listings_used": 0,
		"expires_at":    now.Add(-time.Hour),
	}).Error)
	assert.ErrorIs(t, consumeQuotaSlot(db, sub.ID, 2, now), ErrQuotaExceeded)
}

func TestReleaseQuotaSlotNeverBelowZero(t *testing.T) {
	db := newTestDB(t)
	_, sub := seedSellerWithPlan(t, db, 2)

	require.NoError(t, consumeQuotaSlot(db, sub.ID, 2, time.Now()))
	require.NoError(t, releaseQuotaSlot(db, sub.ID))
	require.NoError(t, releaseQuotaSlot(db, sub.ID))

	var fresh model.UserSubscription
	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 0, fresh.ListingsUsed)
}

// Hide releases the slot; reactivation re-runs the conditional update and
// fails when another listing took the freed slot in between.
func TestReactivateLosesQuotaRace(t *testing.T) {
	db := newTestDB(t)
	user, sub := seedSellerWithPlan(t, db, 1)

	first, err := EvaluateAndCreate(db, user, listingInput("Toyota Corolla"))
	require.NoError(t, err)

	_, err = Transition(db, first, EventHide, user)
	require.NoError(t, err)

	var fresh model.UserSubscription
	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 0, fresh.ListingsUsed)

	second, err := EvaluateAndCreate(db, user, listingInput("Nissan Patrol"))
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusActive, second.Status)

	_, err = Transition(db, first, EventReactivate, user)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var hidden model.Listing
	require.NoError(t, db.First(&hidden, first.ID).Error)
	assert.Equal(t, model.ListingStatusHidden, hidden.Status)

	require.NoError(t, db.First(&fresh, sub.ID).Error)
	assert.Equal(t, 1, fresh.ListingsUsed)
}
