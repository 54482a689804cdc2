package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleDealer UserRole = "dealer"
)

type User struct {
	gorm.Model
	Email       string   `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber string   `json:"phone_number" gorm:"uniqueIndex;not null"`
	Password    string   `json:"-" gorm:"not null"`
	FirstName   string   `json:"first_name" gorm:"not null"`
	LastName    string   `json:"last_name" gorm:"not null"`
	Role        UserRole `json:"role" gorm:"default:'buyer'"`

	// Optional profile fields
	Bio      string `json:"bio" gorm:"type:text"`
	Location string `json:"location"`
	Avatar   string `json:"avatar"`

	// System fields
	EmailVerified   bool       `json:"email_verified" gorm:"default:false"`
	PhoneVerified   bool       `json:"phone_verified" gorm:"default:false"`
	IsVerified      bool       `json:"is_verified" gorm:"default:false"`
	IsAdmin         bool       `json:"-" gorm:"default:false"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relations
	Listings      []Listing          `json:"-"`
	Subscriptions []UserSubscription `json:"-"`
	Badges        []UserBadge        `json:"badges,omitempty"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"full_name":    u.GetFullName(),
		"role":         u.Role,
		"bio":          u.Bio,
		"location":     u.Location,
		"avatar":       u.Avatar,
		"is_verified":  u.IsVerified,
		"member_since": u.CreatedAt,
	}
}

type VerificationCodeType string

const (
	CodeTypeEmail VerificationCodeType = "email"
	CodeTypePhone VerificationCodeType = "phone"
)

type VerificationCode struct {
	gorm.Model
	UserID      uint                 `json:"user_id" gorm:"index;not null"`
	Code        string               `json:"-" gorm:"not null"`
	CodeType    VerificationCodeType `json:"code_type" gorm:"not null"`
	ContactInfo string               `json:"contact_info"`
	ExpiresAt   time.Time            `json:"expires_at" gorm:"not null"`
	IsUsed      bool                 `json:"is_used" gorm:"default:false"`
	UsedAt      *time.Time           `json:"used_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// IsValid reports whether the code is unused and not yet expired.
func (v *VerificationCode) IsValid(now time.Time) bool {
	return !v.IsUsed && now.Before(v.ExpiresAt)
}

type BadgeType string

const (
	BadgeVerified      BadgeType = "verified"
	BadgeTrustedSeller BadgeType = "trusted_seller"
	BadgeTopDealer     BadgeType = "top_dealer"
)

type UserBadge struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"uniqueIndex:idx_user_badge_type;not null"`
	BadgeType BadgeType  `json:"badge_type" gorm:"uniqueIndex:idx_user_badge_type;not null"`
	ExpiresAt *time.Time `json:"expires_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
