package database

import (
	"fmt"
	"log"

	"batch-bot/config"
	"batch-bot/internal/domain/catalog"
	"batch-bot/internal/domain/correlation"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	dsn := config.DB_URL
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&catalog.Batch{},
		&correlation.Record{},
		&correlation.ProcessedEvent{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	seedCatalog(db)

	fmt.Println("✅ Connected and migrated successfully")
	return db
}

// seedCatalog makes sure the single sellable batch exists. Price comes from
// config so a redeploy can change it without touching the row by hand.
func seedCatalog(db *gorm.DB) {
	batch := catalog.Batch{
		Slug:       "upsi",
		Title:      "UPSI 2025",
		TitleHindi: "यूपीएसआई 2025",
		PriceINR:   config.BATCH_PRICE_INR,
		DemoLink:   config.DEMO_GROUP_LINK,
	}

	var existing catalog.Batch
	err := db.Where("slug = ?", batch.Slug).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		if err := db.Create(&batch).Error; err != nil {
			log.Fatal("❌ Failed to seed batch catalog:", err)
		}
		return
	}
	if err != nil {
		log.Fatal("❌ Failed to read batch catalog:", err)
	}

	if err := db.Model(&existing).Updates(map[string]interface{}{
		"price_inr": batch.PriceINR,
		"demo_link": batch.DemoLink,
	}).Error; err != nil {
		log.Fatal("❌ Failed to update batch catalog:", err)
	}
}
