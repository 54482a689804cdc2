package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"umuhuza_backend/internal/lifecycle"
	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/email"
	"umuhuza_backend/pkg/notification"
	"umuhuza_backend/pkg/utils/jwt"
)

type PaymentInput struct {
	PricingPlanID uint                `json:"pricing_plan_id" validate:"required"`
	ListingID     *uint               `json:"listing_id"`
	Method        model.PaymentMethod `json:"payment_method" validate:"required,oneof=mobile_money card wallet"`
	PhoneNumber   string              `json:"phone_number"`
}

// CreatePayment starts a plan purchase. Card payments go through a Stripe
// checkout session; mobile money and wallet create a pending Payment that the
// provider callback confirms later.
func CreatePayment(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(PaymentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	db := database.GetDB()

	var plan model.PricingPlan
	if err := db.Where("id = ? AND is_active = ?", input.PricingPlanID, true).First(&plan).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Pricing plan not found",
		})
	}
	if plan.IsFree() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The free tier cannot be purchased",
		})
	}

	if input.ListingID != nil {
		var listing model.Listing
		if err := db.First(&listing, *input.ListingID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing not found",
			})
		}
		if listing.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not authorized to renew this listing",
			})
		}
	}

	payment := model.Payment{
		UserID:        claims.UserID,
		PricingPlanID: plan.ID,
		ListingID:     input.ListingID,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		Method:        input.Method,
		Status:        model.PaymentStatusPending,
		PaymentRef:    "pay_" + uuid.New().String(),
		PhoneNumber:   input.PhoneNumber,
	}

	if err := db.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create payment",
		})
	}

	if input.Method == model.PaymentMethodCard {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

		params := &stripe.CheckoutSessionParams{
			Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
			LineItems: []*stripe.CheckoutSessionLineItemParams{
				{
					Price:    stripe.String(plan.StripePriceID),
					Quantity: stripe.Int64(1),
				},
			},
			ClientReferenceID: stripe.String(payment.PaymentRef),
			SuccessURL:        stripe.String(os.Getenv("FRONTEND_URL") + "/payments/verify?ref=" + payment.PaymentRef),
			CancelURL:         stripe.String(os.Getenv("FRONTEND_URL") + "/pricing"),
		}

		session, err := checkoutsession.New(params)
		if err != nil {
			db.Model(&payment).Update("status", model.PaymentStatusFailed)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create checkout session",
			})
		}

		return c.JSON(fiber.Map{
			"payment":      payment,
			"checkout_url": session.URL,
		})
	}

	// Mobile money / wallet: the provider confirms asynchronously via
	// VerifyPayment.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment initiated. Confirm with your provider to activate the plan.",
		"payment": payment,
	})
}

// onPaymentSuccess completes the payment, starts or renews the subscription
// and, when the payment targeted a specific listing, fires its Renew
// transition. The listing renewal and notification are best-effort; the
// subscription itself is the transactional part.
func onPaymentSuccess(db *gorm.DB, payment *model.Payment) error {
	now := time.Now()

	var plan model.PricingPlan
	if err := db.First(&plan, payment.PricingPlanID).Error; err != nil {
		return err
	}
	var user model.User
	if err := db.First(&user, payment.UserID).Error; err != nil {
		return err
	}

	isRenewal := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":       model.PaymentStatusCompleted,
			"confirmed_at": now,
		}).Error; err != nil {
			return err
		}

		// An active subscription on the same plan is extended; anything else
		// starts a fresh subscription window.
		var current model.UserSubscription
		err := tx.Where("user_id = ? AND status = ? AND pricing_plan_id = ? AND expires_at > ?",
			payment.UserID, model.SubscriptionStatusActive, plan.ID, now).
			First(&current).Error
		if err == nil {
			isRenewal = true
			return tx.Model(&current).
				Update("expires_at", current.ExpiresAt.AddDate(0, 0, plan.DurationDays)).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		return tx.Create(&model.UserSubscription{
			UserID:        payment.UserID,
			PricingPlanID: plan.ID,
			Status:        model.SubscriptionStatusActive,
			StartsAt:      now,
			ExpiresAt:     now.AddDate(0, 0, plan.DurationDays),
		}).Error
	})
	if err != nil {
		return err
	}

	if payment.ListingID != nil {
		var listing model.Listing
		if err := db.First(&listing, *payment.ListingID).Error; err == nil &&
			listing.Status == model.ListingStatusExpired {
			if _, err := lifecycle.Transition(db, &listing, lifecycle.EventRenew, &user); err != nil {
				log.Printf("Could not renew listing %d after payment %s: %v", listing.ID, payment.PaymentRef, err)
			}
		}
	}

	notification.Notify(db, user.ID, "Payment received",
		fmt.Sprintf("Your %s plan is now active.", plan.Name), model.NotificationPayment)

	if email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendPaymentReceipt(
			user.Email, user.GetFullName(), plan.Name,
			payment.Amount, payment.Currency, payment.PaymentRef, now); err != nil {
			log.Printf("Could not send payment receipt: %v", err)
		}
		if err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email, user.GetFullName(), plan.Name, plan.DurationDays,
			plan.Price, plan.Currency, plan.MaxListings,
			now.AddDate(0, 0, plan.DurationDays), isRenewal); err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return nil
}

// onPaymentFailure marks the payment failed. Listing and subscription state
// are left untouched.
func onPaymentFailure(db *gorm.DB, payment *model.Payment) {
	if err := db.Model(payment).Update("status", model.PaymentStatusFailed).Error; err != nil {
		log.Printf("Could not mark payment %s failed: %v", payment.PaymentRef, err)
	}
	notification.Notify(db, payment.UserID, "Payment failed",
		"Your payment could not be completed. Please try again.", model.NotificationPayment)
}

// validProviderSignature checks the hex HMAC-SHA256 of the callback body
// against the shared provider secret. Missing secret or signature never
// passes.
func validProviderSignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyPayment is the confirmation callback for mobile money and wallet
// payments. Like the Stripe webhook it is signed by the provider, not
// asserted by the paying user: the raw body must carry a valid
// X-Provider-Signature under PAYMENT_PROVIDER_SECRET.
func VerifyPayment(c *fiber.Ctx) error {
	if !validProviderSignature(c.Body(), c.Get("X-Provider-Signature"), os.Getenv("PAYMENT_PROVIDER_SECRET")) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid provider signature",
		})
	}

	var input struct {
		PaymentRef string `json:"payment_ref" validate:"required"`
		Success    bool   `json:"success"`
	}
	if err := c.BodyParser(&input); err != nil || input.PaymentRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	db := database.GetDB()

	var payment model.Payment
	if err := db.Where("payment_ref = ?", input.PaymentRef).
		First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment not found",
		})
	}

	if payment.Status != model.PaymentStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Payment already processed",
		})
	}

	if !input.Success {
		onPaymentFailure(db, &payment)
		return c.JSON(fiber.Map{
			"message": "Payment marked as failed",
			"payment": payment,
		})
	}

	if err := onPaymentSuccess(db, &payment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete payment",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment completed successfully",
		"payment": payment,
	})
}

func PaymentHistory(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var payments []model.Payment
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Preload("PricingPlan").
		Order("created_at desc").
		Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch payments",
		})
	}

	return c.JSON(payments)
}

// HandleStripeWebhook processes card payment results pushed by Stripe.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	db := database.GetDB()

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session struct {
			ClientReferenceID string `json:"client_reference_id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var payment model.Payment
		if err := db.Where("payment_ref = ?", session.ClientReferenceID).First(&payment).Error; err != nil {
			log.Printf("Webhook for unknown payment ref %s", session.ClientReferenceID)
			return c.SendStatus(fiber.StatusOK)
		}
		if payment.Status != model.PaymentStatusPending {
			return c.SendStatus(fiber.StatusOK)
		}
		if err := onPaymentSuccess(db, &payment); err != nil {
			log.Printf("Could not complete payment %s: %v", payment.PaymentRef, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not complete payment",
			})
		}

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var session struct {
			ClientReferenceID string `json:"client_reference_id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var payment model.Payment
		if err := db.Where("payment_ref = ? AND status = ?",
			session.ClientReferenceID, model.PaymentStatusPending).First(&payment).Error; err == nil {
			onPaymentFailure(db, &payment)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
