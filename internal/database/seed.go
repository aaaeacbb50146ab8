// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/models"
)

const demoEmail = "demo@lookmate.app"

// SeedInitialData creates a demo account with a small closet and the
// product catalog used by similar-product search.
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	var userCount int64
	db.Model(&models.User{}).Where("email = ?", demoEmail).Count(&userCount)

	if userCount == 0 {
		demo := &models.User{
			Email:       demoEmail,
			DisplayName: "Demo",
			BodyType:    models.BodyTypeNormal,
			Gender:      models.GenderUnisex,
		}
		if err := demo.SetPassword("lookmate123"); err != nil {
			return fmt.Errorf("failed to set demo password: %w", err)
		}

		err := WithTransaction(db, func(tx *gorm.DB) error {
			if err := tx.Create(demo).Error; err != nil {
				return err
			}
			items := []models.ClothingItem{
				{UserID: demo.ID, Category: models.CategoryTop, Color: "white", ImageURL: "/samples/white-tee.png", Tags: models.StringList{"basic", "casual"}},
				{UserID: demo.ID, Category: models.CategoryBottom, Color: "blue", ImageURL: "/samples/denim.png", Tags: models.StringList{"denim"}},
				{UserID: demo.ID, Category: models.CategoryOuter, Color: "beige", Season: models.SeasonFall, ImageURL: "/samples/trench.png", Tags: models.StringList{"classic"}},
				{UserID: demo.ID, Category: models.CategoryShoes, Color: "white", ImageURL: "/samples/sneakers.png", Tags: models.StringList{"casual"}},
			}
			return tx.Create(&items).Error
		})
		if err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}

		logrus.Info("Demo user created successfully")
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount == 0 {
		if err := db.Create(defaultProducts()).Error; err != nil {
			logrus.WithError(err).Warn("Failed to seed product catalog")
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

func defaultProducts() []models.Product {
	return []models.Product{
		{Name: "Oversized Cotton Tee", Brand: "BASIC LAB", Price: 19000, Category: models.CategoryTop, Colors: models.StringList{"white"}, Rating: 4.6, ReviewCount: 1820, SalesVolumeScore: 92, Tags: models.StringList{"basic", "casual"}, ThumbnailURL: "https://picsum.photos/seed/tee/400", ProductURL: "https://shop.example.com/p/tee"},
		{Name: "Striped Long Sleeve", Brand: "MARINE", Price: 32000, Category: models.CategoryTop, Colors: models.StringList{"navy", "white"}, Rating: 4.3, ReviewCount: 410, SalesVolumeScore: 61, Tags: models.StringList{"casual", "stripe"}, ThumbnailURL: "https://picsum.photos/seed/stripe/400", ProductURL: "https://shop.example.com/p/stripe"},
		{Name: "Wide Denim Pants", Brand: "DENIMWORKS", Price: 45000, Category: models.CategoryBottom, Colors: models.StringList{"blue"}, Rating: 4.5, ReviewCount: 950, SalesVolumeScore: 80, Tags: models.StringList{"denim", "casual"}, ThumbnailURL: "https://picsum.photos/seed/denim/400", ProductURL: "https://shop.example.com/p/denim"},
		{Name: "Pleated Slacks", Brand: "FORMA", Price: 52000, Category: models.CategoryBottom, Colors: models.StringList{"black"}, Rating: 4.1, ReviewCount: 210, SalesVolumeScore: 44, Tags: models.StringList{"office"}, ThumbnailURL: "https://picsum.photos/seed/slacks/400", ProductURL: "https://shop.example.com/p/slacks"},
		{Name: "Single Trench Coat", Brand: "FORMA", Price: 139000, Category: models.CategoryOuter, Colors: models.StringList{"beige"}, Rating: 4.8, ReviewCount: 330, SalesVolumeScore: 70, Tags: models.StringList{"classic"}, ThumbnailURL: "https://picsum.photos/seed/trench/400", ProductURL: "https://shop.example.com/p/trench"},
		{Name: "Canvas Low Sneakers", Brand: "STEP", Price: 59000, Category: models.CategoryShoes, Colors: models.StringList{"white"}, Rating: 4.7, ReviewCount: 2400, SalesVolumeScore: 95, Tags: models.StringList{"casual"}, ThumbnailURL: "https://picsum.photos/seed/sneakers/400", ProductURL: "https://shop.example.com/p/sneakers"},
		{Name: "Linen Slip Dress", Brand: "MARINE", Price: 68000, Category: models.CategoryOnepiece, Colors: models.StringList{"ivory"}, Rating: 4.4, ReviewCount: 150, SalesVolumeScore: 38, Tags: models.StringList{"summer"}, ThumbnailURL: "https://picsum.photos/seed/dress/400", ProductURL: "https://shop.example.com/p/dress"},
		{Name: "Leather Belt", Brand: "STEP", Price: 25000, Category: models.CategoryAccessory, Colors: models.StringList{"brown"}, Rating: 4.2, ReviewCount: 90, SalesVolumeScore: 20, Tags: models.StringList{"classic"}, ThumbnailURL: "https://picsum.photos/seed/belt/400", ProductURL: "https://shop.example.com/p/belt"},
	}
}
