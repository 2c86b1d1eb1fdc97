package database

import "github.com/bookit/bookit-backend/internal/models"

// SeedTimes are the daily start times generated for every available date
var SeedTimes = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// SeedExperiences is the sample catalog
var SeedExperiences = []models.Experience{
	{
		Title:            "Sunset Beach Tour",
		Description:      "Experience the breathtaking beauty of a sunset on our exclusive beach tour. Includes guided walk, refreshments, and photography session.",
		ShortDescription: "Breathtaking sunset experience on a pristine beach with guided tour and refreshments.",
		Price:            2500,
		Images: models.StringArray{
			"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800",
			"https://images.unsplash.com/photo-1519046904884-53103b34b206?w=800",
		},
		AvailableDates: models.StringArray{"2026-11-16", "2026-11-17", "2026-11-18", "2026-11-19", "2026-11-20"},
	},
	{
		Title:            "Mountain Hiking Adventure",
		Description:      "Embark on an exciting mountain hiking adventure. Suitable for all fitness levels. Includes equipment, guide, and lunch.",
		ShortDescription: "Exciting mountain hiking adventure with equipment, guide, and lunch included.",
		Price:            3500,
		Images: models.StringArray{
			"https://images.unsplash.com/photo-1551632811-561732d1e306?w=800",
			"https://images.unsplash.com/photo-1478131143081-80f7f84ca84d?w=800",
		},
		AvailableDates: models.StringArray{"2026-11-21", "2026-11-22", "2026-11-23", "2026-11-24", "2026-11-25"},
	},
	{
		Title:            "City Heritage Walk",
		Description:      "Discover the rich heritage of the city with our guided heritage walk. Visit historical landmarks and learn about local culture.",
		ShortDescription: "Discover city heritage with guided walk through historical landmarks and cultural sites.",
		Price:            1500,
		Images: models.StringArray{
			"https://images.unsplash.com/photo-1514565131-fce0801e5785?w=800",
			"https://images.unsplash.com/photo-1480714378408-67cf0d13bc1b?w=800",
		},
		AvailableDates: models.StringArray{"2026-11-26", "2026-11-27", "2026-11-28", "2026-11-29", "2026-11-30"},
	},
	{
		Title:            "Wildlife Safari",
		Description:      "Experience wildlife in its natural habitat. Morning and evening safaris available. Includes transportation and guide.",
		ShortDescription: "Wildlife safari experience in natural habitat with morning and evening options.",
		Price:            4500,
		Images: models.StringArray{
			"https://images.unsplash.com/photo-1544923408-75c5cef46f14?w=800",
			"https://images.unsplash.com/photo-1516426122078-c23e76319801?w=800",
		},
		AvailableDates: models.StringArray{"2026-12-01", "2026-12-02", "2026-12-03", "2026-12-04", "2026-12-05"},
	},
	{
		Title:            "Cooking Class Experience",
		Description:      "Learn to cook local delicacies with our expert chefs. Includes ingredients, recipes, and a delicious meal.",
		ShortDescription: "Learn to cook local delicacies with expert chefs in a hands-on cooking class.",
		Price:            2000,
		Images: models.StringArray{
			"https://images.unsplash.com/photo-1556910103-1c02745aae4d?w=800",
			"https://images.unsplash.com/photo-1466637574441-749b8f19452f?w=800",
		},
		AvailableDates: models.StringArray{"2026-12-06", "2026-12-07", "2026-12-08", "2026-12-09", "2026-12-10"},
	},
}
