package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"umuhuza_backend/internal/model"
)

func TestEvaluateAdmission(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		sub     *model.UserSubscription
		plan    *model.PricingPlan
		wantErr error
	}{
		{
			name:    "nil subscription",
			sub:     nil,
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: ErrNoActiveSubscription,
		},
		{
			name: "expired by timestamp despite active status",
			sub: &model.UserSubscription{
				Status:    model.SubscriptionStatusActive,
				ExpiresAt: now.Add(-time.Hour),
			},
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: ErrNoActiveSubscription,
		},
		{
			name: "cancelled subscription",
			sub: &model.UserSubscription{
				Status:    model.SubscriptionStatusCancelled,
				ExpiresAt: now.Add(time.Hour),
			},
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: ErrNoActiveSubscription,
		},
		{
			name: "quota exhausted",
			sub: &model.UserSubscription{
				Status:       model.SubscriptionStatusActive,
				ExpiresAt:    now.Add(time.Hour),
				ListingsUsed: 10,
			},
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: ErrQuotaExceeded,
		},
		{
			name: "free tier single slot already used",
			sub: &model.UserSubscription{
				Status:       model.SubscriptionStatusActive,
				ExpiresAt:    now.Add(24 * time.Hour),
				ListingsUsed: 1,
			},
			plan:    &model.PricingPlan{MaxListings: 1},
			wantErr: ErrQuotaExceeded,
		},
		{
			name: "free tier with slot available",
			sub: &model.UserSubscription{
				Status:       model.SubscriptionStatusActive,
				ExpiresAt:    now.Add(24 * time.Hour),
				ListingsUsed: 0,
			},
			plan:    &model.PricingPlan{MaxListings: 1},
			wantErr: nil,
		},
		{
			name: "headroom on paid plan",
			sub: &model.UserSubscription{
				Status:       model.SubscriptionStatusActive,
				ExpiresAt:    now.Add(30 * 24 * time.Hour),
				ListingsUsed: 7,
			},
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: nil,
		},
		{
			name: "expiring exactly now is no longer active",
			sub: &model.UserSubscription{
				Status:    model.SubscriptionStatusActive,
				ExpiresAt: now,
			},
			plan:    &model.PricingPlan{MaxListings: 10},
			wantErr: ErrNoActiveSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EvaluateAdmission(tt.sub, tt.plan, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRemainingQuota(t *testing.T) {
	plan := &model.PricingPlan{MaxListings: 10}

	assert.Equal(t, 10, RemainingQuota(&model.UserSubscription{ListingsUsed: 0}, plan))
	assert.Equal(t, 3, RemainingQuota(&model.UserSubscription{ListingsUsed: 7}, plan))
	assert.Equal(t, 0, RemainingQuota(&model.UserSubscription{ListingsUsed: 10}, plan))
	// Never negative, even if bookkeeping overshot.
	assert.Equal(t, 0, RemainingQuota(&model.UserSubscription{ListingsUsed: 12}, plan))
}

func TestListingInputValidation(t *testing.T) {
	valid := ListingInput{
		CategoryID:  1,
		Title:       "Toyota Corolla 2018",
		Description: "Well maintained, single owner.",
		Price:       15000000,
		Location:    "Bujumbura",
	}
	assert.NoError(t, validate.Struct(&valid))

	tests := []struct {
		name   string
		mutate func(*ListingInput)
	}{
		{"missing category", func(in *ListingInput) { in.CategoryID = 0 }},
		{"title too short", func(in *ListingInput) { in.Title = "ab" }},
		{"missing description", func(in *ListingInput) { in.Description = "" }},
		{"zero price", func(in *ListingInput) { in.Price = 0 }},
		{"negative price", func(in *ListingInput) { in.Price = -500 }},
		{"missing location", func(in *ListingInput) { in.Location = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			assert.Error(t, validate.Struct(&input))
		})
	}
}
