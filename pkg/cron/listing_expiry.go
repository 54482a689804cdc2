package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"umuhuza_backend/internal/lifecycle"
	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
)

// DeletionGraceDays is how long an expired listing survives before the sweep
// removes it.
const DeletionGraceDays = 30

func InitListingExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		SweepExpiredListings()
	})

	if err != nil {
		log.Printf("Could not initialize listing expiry cron: %v", err)
		return
	}

	c.Start()
}

// SweepExpiredListings is the periodic half of the expiry policy (the lazy
// half runs inside quota checks). It expires active listings past their
// expiry timestamp and deletes expired listings past the grace period.
func SweepExpiredListings() {
	db := database.GetDB()
	now := time.Now()

	var dueListings []model.Listing
	if err := db.Where("status = ? AND expires_at <= ?", model.ListingStatusActive, now).
		Find(&dueListings).Error; err != nil {
		log.Printf("Error fetching expired listings: %v", err)
		return
	}

	expired := 0
	for i := range dueListings {
		if _, err := lifecycle.Transition(db, &dueListings[i], lifecycle.EventExpire, nil); err != nil {
			log.Printf("Could not expire listing %d: %v", dueListings[i].ID, err)
			continue
		}
		expired++
	}

	graceCutoff := now.AddDate(0, 0, -DeletionGraceDays)
	res := db.Model(&model.Listing{}).
		Where("status = ? AND expires_at <= ?", model.ListingStatusExpired, graceCutoff).
		Update("status", model.ListingStatusDeleted)
	if res.Error != nil {
		log.Printf("Error deleting expired listings: %v", res.Error)
	}

	log.Printf("Listing sweep done: %d expired, %d deleted after grace period", expired, res.RowsAffected)
}
