package model

import (
	"time"

	"gorm.io/gorm"
)

type DealerApplicationStatus string

const (
	DealerApplicationPending  DealerApplicationStatus = "pending"
	DealerApplicationApproved DealerApplicationStatus = "approved"
	DealerApplicationRejected DealerApplicationStatus = "rejected"
)

type DealerApplication struct {
	gorm.Model
	UserID          uint                    `json:"user_id" gorm:"index;not null"`
	BusinessName    string                  `json:"business_name" gorm:"not null"`
	BusinessType    string                  `json:"business_type" gorm:"not null"`
	BusinessAddress string                  `json:"business_address"`
	BusinessPhone   string                  `json:"business_phone"`
	BusinessEmail   string                  `json:"business_email"`
	TaxID           string                  `json:"tax_id"`
	BusinessLicense string                  `json:"business_license"`
	Status          DealerApplicationStatus `json:"status" gorm:"default:'pending'"`
	RejectionReason string                  `json:"rejection_reason"`
	ApprovedAt      *time.Time              `json:"approved_at"`

	// Relations
	User      User             `json:"-" gorm:"foreignKey:UserID"`
	Documents []DealerDocument `json:"documents" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

type DealerDocument struct {
	gorm.Model
	ApplicationID uint   `json:"application_id" gorm:"index;not null"`
	DocType       string `json:"doc_type" gorm:"not null"`
	FileURL       string `json:"file_url" gorm:"not null"`
	Verified      bool   `json:"verified" gorm:"default:false"`

	Application DealerApplication `json:"-" gorm:"foreignKey:ApplicationID"`
}
