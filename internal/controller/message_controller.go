package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/notification"
	"umuhuza_backend/pkg/utils/jwt"
)

type StartConversationInput struct {
	ListingID uint   `json:"listing_id" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

type SendMessageInput struct {
	Body string `json:"body" validate:"required"`
}

func ListConversations(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var conversations []model.Conversation
	if err := database.GetDB().
		Where("buyer_id = ? OR seller_id = ?", claims.UserID, claims.UserID).
		Preload("Listing").
		Order("updated_at desc").
		Find(&conversations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch conversations",
		})
	}

	return c.JSON(conversations)
}

// StartConversation opens (or reuses) the thread between the caller and the
// listing's seller and posts the first message.
func StartConversation(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(StartConversationInput)
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

	var listing model.Listing
	if err := db.First(&listing, input.ListingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}
	if listing.UserID == claims.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot message yourself about your own listing",
		})
	}

	var conversation model.Conversation
	err := db.Where("listing_id = ? AND buyer_id = ?", listing.ID, claims.UserID).
		First(&conversation).Error
	if err == gorm.ErrRecordNotFound {
		conversation = model.Conversation{
			ListingID: listing.ID,
			BuyerID:   claims.UserID,
			SellerID:  listing.UserID,
		}
		if err := db.Create(&conversation).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not start conversation",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not start conversation",
		})
	}

	message := model.Message{
		ConversationID: conversation.ID,
		SenderID:       claims.UserID,
		Body:           input.Body,
	}
	if err := db.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send message",
		})
	}

	notification.Notify(db, listing.UserID, "New message",
		"You have a new message about \""+listing.Title+"\".", model.NotificationMessage)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"conversation": conversation,
		"message":      message,
	})
}

// GetConversationMessages returns the thread and marks messages from the
// other side as read.
func GetConversationMessages(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	db := database.GetDB()

	var conversation model.Conversation
	if err := db.First(&conversation, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}
	if !conversation.IsParticipant(claims.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not part of this conversation",
		})
	}

	var messages []model.Message
	if err := db.Where("conversation_id = ?", conversation.ID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch messages",
		})
	}

	db.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?",
			conversation.ID, claims.UserID, false).
		Update("is_read", true)

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

func SendMessage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(SendMessageInput)
	if err := c.BodyParser(input); err != nil || input.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message body is required",
		})
	}

	db := database.GetDB()

	var conversation model.Conversation
	if err := db.First(&conversation, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}
	if !conversation.IsParticipant(claims.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not part of this conversation",
		})
	}

	message := model.Message{
		ConversationID: conversation.ID,
		SenderID:       claims.UserID,
		Body:           input.Body,
	}
	if err := db.Create(&message).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send message",
		})
	}

	recipientID := conversation.BuyerID
	if claims.UserID == conversation.BuyerID {
		recipientID = conversation.SellerID
	}
	notification.Notify(db, recipientID, "New message",
		"You have a new message.", model.NotificationMessage)

	return c.Status(fiber.StatusCreated).JSON(message)
}

func UnreadMessageCount(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var count int64
	if err := database.GetDB().Model(&model.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.buyer_id = ? OR conversations.seller_id = ?) AND messages.sender_id <> ? AND messages.is_read = ?",
			claims.UserID, claims.UserID, claims.UserID, false).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not count messages",
		})
	}

	return c.JSON(fiber.Map{
		"unread_count": count,
	})
}
