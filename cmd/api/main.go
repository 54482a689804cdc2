package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"umuhuza_backend/internal/controller"
	"umuhuza_backend/internal/middleware"
	"umuhuza_backend/internal/model"
	"umuhuza_backend/pkg/config"
	"umuhuza_backend/pkg/cron"
	"umuhuza_backend/pkg/database"
	"umuhuza_backend/pkg/email"
	"umuhuza_backend/pkg/seed"
	"umuhuza_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	authProtected := auth.Group("/", middleware.AuthMiddleware())
	authProtected.Post("/verify-email", controller.VerifyEmail)
	authProtected.Post("/verify-phone", controller.VerifyPhone)
	authProtected.Post("/resend-code", controller.ResendCode)
	authProtected.Get("/me", controller.GetProfile)
	authProtected.Put("/me", controller.UpdateProfile)

	// Public user profiles and their reviews
	api.Get("/users/:user_id/profile", controller.GetPublicProfile)
	api.Get("/users/:user_id/reviews", controller.ListUserReviews)

	// Categories
	api.Get("/categories", controller.ListCategories)
	api.Get("/categories/:slug", controller.GetCategory)

	// Public listing routes
	api.Get("/listings", controller.ListListings)
	api.Get("/listings/featured", controller.GetFeaturedListings)
	api.Get("/listings/:id", controller.GetListing)
	api.Get("/listings/:id/similar", controller.GetSimilarListings)

	// Protected listing routes
	listings := api.Group("/listings", middleware.AuthMiddleware())
	listings.Post("/", controller.CreateListing)
	listings.Get("/my/all", controller.ListMyListings)
	listings.Put("/:id", middleware.CheckListingOwnership(), controller.UpdateListing)
	listings.Post("/:id/sold", controller.MarkListingSold)
	listings.Post("/:id/hide", controller.HideListing)
	listings.Post("/:id/reactivate", controller.ReactivateListing)
	listings.Delete("/:id", controller.DeleteListing)

	// Listing images
	listings.Post("/:id/images", controller.UploadListingImage)
	listings.Delete("/images/:image_id", controller.DeleteListingImage)
	listings.Put("/images/:image_id/primary", controller.SetPrimaryImage)

	// Favorites
	favorites := api.Group("/favorites", middleware.AuthMiddleware())
	favorites.Get("/", controller.ListFavorites)
	favorites.Post("/:listing_id", controller.ToggleFavorite)

	// Reviews
	api.Post("/reviews", middleware.AuthMiddleware(), controller.CreateReview)

	// Reports
	reports := api.Group("/reports", middleware.AuthMiddleware())
	reports.Post("/", controller.CreateReport)
	reports.Get("/", controller.ListMyReports)
	reports.Get("/:id", controller.GetReport)

	// Plans, subscriptions and payments
	api.Get("/plans", controller.ListPlans)
	api.Get("/subscriptions/my", middleware.AuthMiddleware(), controller.GetMySubscription)

	payments := api.Group("/payments", middleware.AuthMiddleware())
	payments.Post("/", controller.CreatePayment)
	payments.Get("/history", controller.PaymentHistory)

	// Provider callbacks: signed by Stripe / the mobile money provider, not
	// by a user session.
	api.Post("/webhook", controller.HandleStripeWebhook)
	api.Post("/payments/callback", controller.VerifyPayment)

	// Dealer onboarding
	dealers := api.Group("/dealers", middleware.AuthMiddleware())
	dealers.Post("/apply", controller.CreateDealerApplication)
	dealers.Get("/application", controller.GetMyDealerApplication)
	dealers.Post("/application/documents", controller.UploadDealerDocument)
	dealers.Post("/applications/:id/approve", middleware.RequireAdmin(), controller.ApproveDealerApplication)
	dealers.Post("/applications/:id/reject", middleware.RequireAdmin(), controller.RejectDealerApplication)

	// Notifications
	notifications := api.Group("/notifications", middleware.AuthMiddleware())
	notifications.Get("/", controller.ListNotifications)
	notifications.Put("/:id/read", controller.MarkNotificationRead)
	notifications.Put("/read-all", controller.MarkAllNotificationsRead)

	// Messaging
	conversations := api.Group("/conversations", middleware.AuthMiddleware())
	conversations.Get("/", controller.ListConversations)
	conversations.Post("/", controller.StartConversation)
	conversations.Get("/unread-count", controller.UnreadMessageCount)
	conversations.Get("/:id/messages", controller.GetConversationMessages)
	conversations.Post("/:id/messages", controller.SendMessage)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	if err := storage.InitStorage(); err != nil {
		log.Fatal("Could not initialize storage:", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.VerificationCode{},
		&model.UserBadge{},
		&model.Category{},
		&model.PricingPlan{},
		&model.UserSubscription{},
		&model.Listing{},
		&model.ListingImage{},
		&model.Payment{},
		&model.DealerApplication{},
		&model.DealerDocument{},
		&model.Favorite{},
		&model.RatingReview{},
		&model.ReportMisconduct{},
		&model.Notification{},
		&model.Conversation{},
		&model.Message{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPricingPlans(database.GetDB())
	seed.SeedCategories(database.GetDB())

	cron.InitListingExpiryCron()
	cron.InitSubscriptionExpiryCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
