package controller

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/badge"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/email"
	"umuhuza_backend/pkg/seed"
	"umuhuza_backend/pkg/sms"
	"umuhuza_backend/pkg/utils/jwt"
)

const (
	EmailCodeExpiryMinutes = 15
	PhoneCodeExpiryMinutes = 10
)

type RegisterInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyCodeInput struct {
	Code string `json:"code" validate:"required,len=6"`
}

type ResendCodeInput struct {
	CodeType model.VerificationCodeType `json:"code_type" validate:"required,oneof=email phone"`
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
}

// generateCode returns a 6-digit numeric verification code.
func generateCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand failing means something is deeply wrong; fall back
			// to a fixed digit rather than panic inside a request.
			code[i] = '0'
			continue
		}
		code[i] = digits[n.Int64()]
	}
	return string(code)
}

func issueVerificationCode(db *gorm.DB, user *model.User, codeType model.VerificationCodeType) {
	expiryMinutes := EmailCodeExpiryMinutes
	contact := user.Email
	if codeType == model.CodeTypePhone {
		expiryMinutes = PhoneCodeExpiryMinutes
		contact = user.PhoneNumber
	}

	code := model.VerificationCode{
		UserID:      user.ID,
		Code:        generateCode(),
		CodeType:    codeType,
		ContactInfo: contact,
		ExpiresAt:   time.Now().Add(time.Duration(expiryMinutes) * time.Minute),
	}
	if err := db.Create(&code).Error; err != nil {
		log.Printf("Could not create %s verification code for user %d: %v", codeType, user.ID, err)
		return
	}

	if codeType == model.CodeTypeEmail && email.GlobalEmailService != nil {
		if err := email.GlobalEmailService.SendVerificationCode(user.Email, user.GetFullName(), code.Code, expiryMinutes); err != nil {
			log.Printf("Could not send verification email to %s: %v", user.Email, err)
		}
	}
	if codeType == model.CodeTypePhone {
		message := fmt.Sprintf("Your Umuhuza verification code is %s. It expires in %d minutes.", code.Code, expiryMinutes)
		if err := sms.Send(user.PhoneNumber, message); err != nil {
			log.Printf("Could not send verification SMS to %s: %v", user.PhoneNumber, err)
		}
	}
}

// assignFreeTier creates the registration-time free subscription. Failure is
// logged but never fails the registration itself.
func assignFreeTier(db *gorm.DB, user *model.User) {
	var freePlan model.PricingPlan
	if err := db.Where("name = ? AND price = 0 AND is_active = ?", seed.FreeTierName, true).
		First(&freePlan).Error; err != nil {
		log.Printf("Failed to load free tier plan: %v", err)
		return
	}

	now := time.Now()
	sub := model.UserSubscription{
		UserID:        user.ID,
		PricingPlanID: freePlan.ID,
		Status:        model.SubscriptionStatusActive,
		StartsAt:      now,
		ExpiresAt:     now.AddDate(0, 0, freePlan.DurationDays),
	}
	if err := db.Create(&sub).Error; err != nil {
		log.Printf("Failed to assign free tier to user %d: %v", user.ID, err)
	}
}

func Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
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

	var existingUser model.User
	if err := database.GetDB().Where("email = ? OR phone_number = ?", input.Email, input.PhoneNumber).
		First(&existingUser).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email or phone number already registered",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not hash password",
		})
	}

	user := model.User{
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Password:    string(hashedPassword),
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        model.RoleBuyer,
	}

	if err := database.GetDB().Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create user",
		})
	}

	assignFreeTier(database.GetDB(), &user)
	issueVerificationCode(database.GetDB(), &user, model.CodeTypeEmail)
	issueVerificationCode(database.GetDB(), &user, model.CodeTypePhone)

	token, err := jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful! Please verify your account.",
		"token":   token,
		"user":    user.GetPublicProfile(),
	})
}

func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	now := time.Now()
	database.GetDB().Model(&user).Update("last_login_at", now)

	token, err := jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":          user.ID,
			"email":       user.Email,
			"full_name":   user.GetFullName(),
			"role":        user.Role,
			"is_verified": user.IsVerified,
		},
	})
}

func verifyContact(c *fiber.Ctx, codeType model.VerificationCodeType) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(VerifyCodeInput)
	if err := c.BodyParser(input); err != nil || input.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Verification code is required",
		})
	}

	db := database.GetDB()

	var code model.VerificationCode
	if err := db.Where("user_id = ? AND code = ? AND code_type = ? AND is_used = ?",
		claims.UserID, input.Code, codeType, false).First(&code).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid verification code",
		})
	}

	now := time.Now()
	if !code.IsValid(now) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Verification code has expired. Please request a new one.",
		})
	}

	var user model.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{}
	if codeType == model.CodeTypeEmail {
		updates["email_verified"] = true
		updates["email_verified_at"] = now
		user.EmailVerified = true
	} else {
		updates["phone_verified"] = true
		updates["phone_verified_at"] = now
		user.PhoneVerified = true
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update verification status",
		})
	}

	db.Model(&code).Updates(map[string]interface{}{"is_used": true, "used_at": now})

	// Full verification awards the verified badge and flips is_verified.
	badge.CheckAndAward(db, &user)

	return c.JSON(fiber.Map{
		"message":           "Verification successful",
		"email_verified":    user.EmailVerified,
		"phone_verified":    user.PhoneVerified,
		"is_fully_verified": user.IsVerified,
	})
}

func VerifyEmail(c *fiber.Ctx) error {
	return verifyContact(c, model.CodeTypeEmail)
}

func VerifyPhone(c *fiber.Ctx) error {
	return verifyContact(c, model.CodeTypePhone)
}

func ResendCode(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(ResendCodeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.CodeType != model.CodeTypeEmail && input.CodeType != model.CodeTypePhone {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid code type. Use \"email\" or \"phone\"",
		})
	}

	db := database.GetDB()

	var user model.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if input.CodeType == model.CodeTypeEmail && user.EmailVerified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email already verified",
		})
	}
	if input.CodeType == model.CodeTypePhone && user.PhoneVerified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone already verified",
		})
	}

	// Invalidate outstanding codes of the same type before issuing a new one.
	db.Model(&model.VerificationCode{}).
		Where("user_id = ? AND code_type = ? AND is_used = ?", user.ID, input.CodeType, false).
		Update("is_used", true)

	issueVerificationCode(db, &user, input.CodeType)

	return c.JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

func GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.GetDB().Preload("Badges").First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(fiber.Map{"user": user})
}

func UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	input := new(UpdateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	updates := map[string]interface{}{}
	if input.FirstName != "" {
		updates["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		updates["last_name"] = input.LastName
	}
	if input.Bio != "" {
		updates["bio"] = input.Bio
	}
	if input.Location != "" {
		updates["location"] = input.Location
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&user).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update profile",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.GetPublicProfile(),
	})
}

// GetPublicProfile returns another user's public profile with review summary.
func GetPublicProfile(c *fiber.Ctx) error {
	userID := c.Params("user_id")

	var user model.User
	if err := database.GetDB().Preload("Badges").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var avgRating float64
	var reviewCount int64
	database.GetDB().Model(&model.RatingReview{}).
		Where("reviewed_user_id = ? AND is_visible = ?", user.ID, true).
		Count(&reviewCount)
	database.GetDB().Model(&model.RatingReview{}).
		Where("reviewed_user_id = ? AND is_visible = ?", user.ID, true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	profile := user.GetPublicProfile()
	profile["average_rating"] = avgRating
	profile["total_reviews"] = reviewCount
	profile["badges"] = user.Badges

	return c.JSON(profile)
}
