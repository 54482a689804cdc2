package model

import "gorm.io/gorm"

// Conversation is the buyer/seller thread attached to a listing. One thread
// per (listing, buyer) pair; the seller side is derived from the listing.
type Conversation struct {
	gorm.Model
	ListingID uint `json:"listing_id" gorm:"uniqueIndex:idx_listing_buyer;not null"`
	BuyerID   uint `json:"buyer_id" gorm:"uniqueIndex:idx_listing_buyer;not null"`
	SellerID  uint `json:"seller_id" gorm:"index;not null"`

	// Relations
	Listing  Listing   `json:"listing" gorm:"foreignKey:ListingID"`
	Buyer    User      `json:"-" gorm:"foreignKey:BuyerID"`
	Seller   User      `json:"-" gorm:"foreignKey:SellerID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// IsParticipant reports whether the user may read or post in the thread.
func (c *Conversation) IsParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint   `json:"sender_id" gorm:"not null"`
	Body           string `json:"body" gorm:"type:text;not null"`
	IsRead         bool   `json:"is_read" gorm:"default:false"`

	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID"`
	Sender       User         `json:"-" gorm:"foreignKey:SenderID"`
}
