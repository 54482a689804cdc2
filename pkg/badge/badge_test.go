package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"umuhuza_backend/internal/model"
)

func TestBadgesFor(t *testing.T) {
	tests := []struct {
		name           string
		role           model.UserRole
		emailVerified  bool
		phoneVerified  bool
		activeListings int64
		avgRating      float64
		want           []model.BadgeType
	}{
		{
			name: "nothing earned",
			role: model.RoleBuyer,
			want: nil,
		},
		{
			name:          "email alone is not verified",
			role:          model.RoleBuyer,
			emailVerified: true,
			want:          nil,
		},
		{
			name:          "both contacts verified",
			role:          model.RoleBuyer,
			emailVerified: true,
			phoneVerified: true,
			want:          []model.BadgeType{model.BadgeVerified},
		},
		{
			name:           "seller below listing threshold",
			role:           model.RoleSeller,
			activeListings: 4,
			avgRating:      4.8,
			want:           nil,
		},
		{
			name:           "seller below rating threshold",
			role:           model.RoleSeller,
			activeListings: 8,
			avgRating:      3.9,
			want:           nil,
		},
		{
			name:           "trusted seller at exact thresholds",
			role:           model.RoleSeller,
			activeListings: 5,
			avgRating:      4.0,
			want:           []model.BadgeType{model.BadgeTrustedSeller},
		},
		{
			name:           "dealer below threshold",
			role:           model.RoleDealer,
			activeListings: 9,
			want:           nil,
		},
		{
			name:           "top dealer at threshold",
			role:           model.RoleDealer,
			activeListings: 10,
			want:           []model.BadgeType{model.BadgeTopDealer},
		},
		{
			name:           "dealer thresholds do not apply to sellers",
			role:           model.RoleSeller,
			activeListings: 12,
			avgRating:      3.0,
			want:           nil,
		},
		{
			name:           "verified dealer earns both",
			role:           model.RoleDealer,
			emailVerified:  true,
			phoneVerified:  true,
			activeListings: 15,
			want:           []model.BadgeType{model.BadgeVerified, model.BadgeTopDealer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BadgesFor(tt.role, tt.emailVerified, tt.phoneVerified, tt.activeListings, tt.avgRating)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, Expiry(model.BadgeVerified, now))

	trusted := Expiry(model.BadgeTrustedSeller, now)
	if assert.NotNil(t, trusted) {
		assert.Equal(t, now.AddDate(0, 0, TieredBadgeLifetimeDays), *trusted)
	}

	dealer := Expiry(model.BadgeTopDealer, now)
	if assert.NotNil(t, dealer) {
		assert.Equal(t, now.AddDate(0, 0, TieredBadgeLifetimeDays), *dealer)
	}
}
