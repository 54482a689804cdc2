package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/email"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		expireLapsedSubscriptions()
		warnExpiringSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
}

func expireLapsedSubscriptions() {
	res := database.GetDB().Model(&model.UserSubscription{}).
		Where("status = ? AND expires_at <= ?", model.SubscriptionStatusActive, time.Now()).
		Update("status", model.SubscriptionStatusExpired)
	if res.Error != nil {
		log.Printf("Error expiring subscriptions: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Marked %d subscriptions expired", res.RowsAffected)
	}
}

func warnExpiringSubscriptions() {
	log.Println("Checking for expiring subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		var subs []model.UserSubscription
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		err := database.GetDB().
			Where("DATE(expires_at) = ? AND status = ?", targetDate, model.SubscriptionStatusActive).
			Preload("User").
			Preload("PricingPlan").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching expiring subscriptions: %v", err)
			continue
		}

		for _, sub := range subs {
			if sub.PricingPlan.IsFree() {
				continue
			}
			if email.GlobalEmailService == nil {
				continue
			}
			err := email.GlobalEmailService.SendSubscriptionExpiryWarning(
				sub.User.Email,
				sub.User.GetFullName(),
				sub.PricingPlan.Name,
				sub.ExpiresAt,
				days,
			)
			if err != nil {
				log.Printf("Error sending expiry warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}
