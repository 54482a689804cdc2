package model

import "gorm.io/gorm"

type RatingReview struct {
	gorm.Model
	ReviewerID     uint   `json:"reviewer_id" gorm:"uniqueIndex:idx_reviewer_reviewed;not null"`
	ReviewedUserID uint   `json:"reviewed_user_id" gorm:"uniqueIndex:idx_reviewer_reviewed;index;not null"`
	ListingID      *uint  `json:"listing_id"`
	Rating         int    `json:"rating" gorm:"not null"`
	Comment        string `json:"comment" gorm:"type:text"`
	IsVisible      bool   `json:"is_visible" gorm:"default:true"`

	// Relations
	Reviewer     User     `json:"-" gorm:"foreignKey:ReviewerID"`
	ReviewedUser User     `json:"-" gorm:"foreignKey:ReviewedUserID"`
	Listing      *Listing `json:"-" gorm:"foreignKey:ListingID"`
}

type Favorite struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"uniqueIndex:idx_user_favorite;not null"`
	ListingID uint `json:"listing_id" gorm:"uniqueIndex:idx_user_favorite;not null"`

	User    User    `json:"-" gorm:"foreignKey:UserID"`
	Listing Listing `json:"listing" gorm:"foreignKey:ListingID"`
}

type ReportType string

const (
	ReportTypeSpam          ReportType = "spam"
	ReportTypeFraud         ReportType = "fraud"
	ReportTypeInappropriate ReportType = "inappropriate"
	ReportTypeOther         ReportType = "other"
)

type ReportMisconduct struct {
	gorm.Model
	ReporterID     uint       `json:"reporter_id" gorm:"index;not null"`
	ReportedUserID *uint      `json:"reported_user_id"`
	ListingID      *uint      `json:"listing_id"`
	ReportType     ReportType `json:"report_type" gorm:"not null"`
	ReportReason   string     `json:"report_reason" gorm:"type:text;not null"`
	Status         string     `json:"status" gorm:"default:'open'"`

	// Relations
	Reporter     User     `json:"-" gorm:"foreignKey:ReporterID"`
	ReportedUser *User    `json:"-" gorm:"foreignKey:ReportedUserID"`
	Listing      *Listing `json:"-" gorm:"foreignKey:ListingID"`
}
