package catalog

import "time"

// Batch is one purchasable batch shown in the bot menu.
type Batch struct {
	ID         uint   `gorm:"primaryKey"`
	Slug       string `gorm:"uniqueIndex"`
	Title      string
	TitleHindi string
	PriceINR   int64
	DemoLink   string
	CreatedAt  time.Time
}
