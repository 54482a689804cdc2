package seed

import (
	"log"

	"gorm.io/gorm"

	"umuhuza_backend/internal/model"
)

// FreeTierName identifies the plan assigned automatically at registration.
const FreeTierName = "Free Tier"

func SeedPricingPlans(db *gorm.DB) {
	plans := []model.PricingPlan{
		{
			Name:                FreeTierName,
			Description:         "Get started with a single listing",
			Price:               0,
			Currency:            "BIF",
			DurationDays:        30,
			MaxListings:         1,
			MaxImagesPerListing: 5,
		},
		{
			Name:                "Standard",
			Description:         "For regular sellers",
			Price:               15000,
			Currency:            "BIF",
			DurationDays:        30,
			MaxListings:         10,
			MaxImagesPerListing: 10,
			StripeProductID:     "prod_test_standard",
			StripePriceID:       "price_test_standard",
		},
		{
			Name:                "Premium",
			Description:         "Featured listings for power sellers",
			Price:               40000,
			Currency:            "BIF",
			DurationDays:        30,
			MaxListings:         50,
			MaxImagesPerListing: 16,
			IsFeatured:          true,
			StripeProductID:     "prod_test_premium",
			StripePriceID:       "price_test_premium",
		},
		{
			Name:                "Dealer",
			Description:         "High-volume plan for registered dealers",
			Price:               100000,
			Currency:            "BIF",
			DurationDays:        30,
			MaxListings:         200,
			MaxImagesPerListing: 16,
			IsFeatured:          true,
			StripeProductID:     "prod_test_dealer",
			StripePriceID:       "price_test_dealer",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.PricingPlan{Name: plan.Name})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Pricing plans seeded successfully!")
}

func SeedCategories(db *gorm.DB) {
	categories := []model.Category{
		{Name: "Vehicles", Slug: "vehicles", Description: "Cars, motorbikes and spare parts", Icon: "car"},
		{Name: "Real Estate", Slug: "real-estate", Description: "Houses, plots and rentals", Icon: "home"},
		{Name: "Electronics", Slug: "electronics", Description: "Phones, computers and appliances", Icon: "device"},
		{Name: "Furniture", Slug: "furniture", Description: "Home and office furniture", Icon: "sofa"},
		{Name: "Fashion", Slug: "fashion", Description: "Clothing, shoes and accessories", Icon: "shirt"},
		{Name: "Services", Slug: "services", Description: "Professional and personal services", Icon: "briefcase"},
	}

	for _, category := range categories {
		result := db.FirstOrCreate(&category, model.Category{Slug: category.Slug})
		if result.Error != nil {
			log.Printf("Error creating category %s: %v", category.Name, result.Error)
		}
	}

	log.Println("Categories seeded successfully!")
}
