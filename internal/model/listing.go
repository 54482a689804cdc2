package model

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusHidden  ListingStatus = "hidden"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusExpired ListingStatus = "expired"
	ListingStatusDeleted ListingStatus = "deleted"
)

type Currency string

const (
	CurrencyBIF Currency = "BIF"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

type Listing struct {
	gorm.Model
	Title       string        `json:"title" gorm:"not null"`
	Slug        string        `json:"slug" gorm:"uniqueIndex:idx_user_listing_slug;not null"`
	Description string        `json:"description" gorm:"type:text;not null"`
	Price       float64       `json:"price" gorm:"not null"`
	Currency    Currency      `json:"currency" gorm:"default:'BIF'"`
	Location    string        `json:"location" gorm:"not null"`
	Status      ListingStatus `json:"status" gorm:"index;not null"`
	Views       int64         `json:"views" gorm:"default:0"`
	IsFeatured  bool          `json:"is_featured" gorm:"default:false"`
	ExpiresAt   time.Time     `json:"expires_at" gorm:"index"`

	UserID     uint `json:"user_id" gorm:"uniqueIndex:idx_user_listing_slug;index"`
	CategoryID uint `json:"category_id" gorm:"index;not null"`

	// Relations
	User     User           `json:"-" gorm:"foreignKey:UserID"`
	Category Category       `json:"category" gorm:"foreignKey:CategoryID"`
	Images   []ListingImage `json:"images" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate builds the per-user slug from the title. A date suffix keeps
// it unique when the same user reposts an identical title.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.Slug == "" {
		s := slug.Make(l.Title)

		var count int64
		tx.Model(&Listing{}).Where("user_id = ? AND slug = ?", l.UserID, s).Count(&count)
		if count > 0 {
			s = s + "-" + time.Now().Format("20060102150405")
		}

		l.Slug = s
	}
	return nil
}

// CountsAgainstQuota reports whether the listing currently occupies a
// subscription quota slot. Hidden listings release their slot; terminal and
// expired listings no longer hold one.
func (l *Listing) CountsAgainstQuota() bool {
	return l.Status == ListingStatusActive
}

type ListingImage struct {
	gorm.Model
	ListingID    uint   `json:"listing_id" gorm:"index;not null"`
	URL          string `json:"url" gorm:"not null"`
	IsPrimary    bool   `json:"is_primary" gorm:"default:false"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`

	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
}
