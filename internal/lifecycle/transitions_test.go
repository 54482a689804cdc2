package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"umuhuza_backend/internal/model"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  model.ListingStatus
		event   Event
		want    model.ListingStatus
		wantErr bool
	}{
		{"active sold", model.ListingStatusActive, EventMarkSold, model.ListingStatusSold, false},
		{"active hide", model.ListingStatusActive, EventHide, model.ListingStatusHidden, false},
		{"active expire", model.ListingStatusActive, EventExpire, model.ListingStatusExpired, false},
		{"active delete", model.ListingStatusActive, EventDelete, model.ListingStatusDeleted, false},
		{"active cannot reactivate", model.ListingStatusActive, EventReactivate, "", true},
		{"active cannot renew", model.ListingStatusActive, EventRenew, "", true},

		{"hidden reactivate", model.ListingStatusHidden, EventReactivate, model.ListingStatusActive, false},
		{"hidden delete", model.ListingStatusHidden, EventDelete, model.ListingStatusDeleted, false},
		{"hidden cannot sell", model.ListingStatusHidden, EventMarkSold, "", true},
		{"hidden cannot expire", model.ListingStatusHidden, EventExpire, "", true},

		{"expired renew", model.ListingStatusExpired, EventRenew, model.ListingStatusActive, false},
		{"expired delete", model.ListingStatusExpired, EventDelete, model.ListingStatusDeleted, false},
		{"expired cannot reactivate", model.ListingStatusExpired, EventReactivate, "", true},
		{"expired cannot hide", model.ListingStatusExpired, EventHide, "", true},

		{"sold is terminal", model.ListingStatusSold, EventReactivate, "", true},
		{"sold cannot delete", model.ListingStatusSold, EventDelete, "", true},
		{"deleted is terminal", model.ListingStatusDeleted, EventRenew, "", true},
		{"deleted cannot delete again", model.ListingStatusDeleted, EventDelete, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nextStatus(tt.status, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCheckActor(t *testing.T) {
	owner := &model.User{}
	owner.ID = 1
	stranger := &model.User{}
	stranger.ID = 2
	admin := &model.User{IsAdmin: true}
	admin.ID = 3

	listing := &model.Listing{UserID: 1}

	tests := []struct {
		name    string
		event   Event
		actor   *model.User
		wantErr bool
	}{
		{"owner may sell", EventMarkSold, owner, false},
		{"owner may hide", EventHide, owner, false},
		{"owner may reactivate", EventReactivate, owner, false},
		{"owner may renew", EventRenew, owner, false},
		{"owner may delete", EventDelete, owner, false},

		{"stranger may not sell", EventMarkSold, stranger, true},
		{"stranger may not hide", EventHide, stranger, true},
		{"stranger may not delete", EventDelete, stranger, true},

		{"admin may delete", EventDelete, admin, false},
		{"admin may not sell for the owner", EventMarkSold, admin, true},

		{"system sweep expires", EventExpire, nil, false},
		{"owner may not expire", EventExpire, owner, true},
		{"admin may not expire", EventExpire, admin, true},

		{"nil actor may not sell", EventMarkSold, nil, true},
		{"nil actor may not delete", EventDelete, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkActor(tt.event, listing, tt.actor)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCountsAgainstQuota(t *testing.T) {
	assert.True(t, (&model.Listing{Status: model.ListingStatusActive}).CountsAgainstQuota())
	assert.False(t, (&model.Listing{Status: model.ListingStatusHidden}).CountsAgainstQuota())
	assert.False(t, (&model.Listing{Status: model.ListingStatusSold}).CountsAgainstQuota())
	assert.False(t, (&model.Listing{Status: model.ListingStatusExpired}).CountsAgainstQuota())
	assert.False(t, (&model.Listing{Status: model.ListingStatusDeleted}).CountsAgainstQuota())
}
