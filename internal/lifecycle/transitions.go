package lifecycle

import (
	"time"

	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
)

type Event string

const (
	EventMarkSold   Event = "mark_sold"
	EventHide       Event = "hide"
	EventReactivate Event = "reactivate"
	EventExpire     Event = "expire"
	EventRenew      Event = "renew"
	EventDelete     Event = "delete"
)

// nextStatus is the transition table. sold and deleted are terminal.
func nextStatus(status model.ListingStatus, event Event) (model.ListingStatus, error) {
	switch status {
	case model.ListingStatusActive:
		switch event {
		case EventMarkSold:
			return model.ListingStatusSold, nil
		case EventHide:
			return model.ListingStatusHidden, nil
		case EventExpire:
			return model.ListingStatusExpired, nil
		case EventDelete:
			return model.ListingStatusDeleted, nil
		}
	case model.ListingStatusHidden:
		switch event {
		case EventReactivate:
			return model.ListingStatusActive, nil
		case EventDelete:
			return model.ListingStatusDeleted, nil
		}
	case model.ListingStatusExpired:
		switch event {
		case EventRenew:
			return model.ListingStatusActive, nil
		case EventDelete:
			return model.ListingStatusDeleted, nil
		}
	}
	return status, ErrInvalidTransition
}

// checkActor enforces who may fire an event. Expire is system-only and is
// fired with a nil actor by the sweep; users never reach it.
func checkActor(event Event, listing *model.Listing, actor *model.User) error {
	if event == EventExpire {
		if actor != nil {
			return ErrForbidden
		}
		return nil
	}
	if actor == nil {
		return ErrForbidden
	}
	if event == EventDelete {
		if actor.ID == listing.UserID || actor.IsAdmin {
			return nil
		}
		return ErrForbidden
	}
	if actor.ID != listing.UserID {
		return ErrForbidden
	}
	return nil
}

// Transition fires an event against a listing, updating its status and the
// owner's quota bookkeeping in one transaction. Reactivate and Renew
// re-consume a quota slot and can fail with ErrQuotaExceeded; events that take
// the listing out of the active state give the slot back.
func Transition(db *gorm.DB, listing *model.Listing, event Event, actor *model.User) (*model.Listing, error) {
	if err := checkActor(event, listing, actor); err != nil {
		return nil, err
	}

	next, err := nextStatus(listing.Status, event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	wasCounted := listing.CountsAgainstQuota()

	var sub *model.UserSubscription
	if event == EventReactivate || event == EventRenew {
		sub, err = ActiveSubscription(db, listing.UserID, now)
		if err != nil {
			return nil, err
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": next}
		if event == EventRenew {
			updates["expires_at"] = now.AddDate(0, 0, sub.PricingPlan.DurationDays)
		}
		if err := tx.Model(listing).Updates(updates).Error; err != nil {
			return err
		}

		switch {
		case event == EventReactivate || event == EventRenew:
			return consumeQuotaSlot(tx, sub.ID, sub.PricingPlan.MaxListings, now)
		case wasCounted:
			return activeSlotRelease(tx, listing.UserID)
		}
		return nil
	})
	if err != nil {
		// Updates mutated the in-memory struct before the rollback.
		listing.Status = model.ListingStatus("")
		db.First(listing, listing.ID)
		return nil, err
	}

	listing.Status = next
	return listing, nil
}

// activeSlotRelease returns the slot to whichever subscription is currently
// active for the owner. When none is (the subscription itself lapsed) there
// is nothing to give back.
func activeSlotRelease(tx *gorm.DB, userID uint) error {
	var sub model.UserSubscription
	err := tx.Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Order("expires_at desc").First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return releaseQuotaSlot(tx, sub.ID)
}
