package catalog

import "gorm.io/gorm"

func All(db *gorm.DB) ([]Batch, error) {
	var batches []Batch
	err := db.Order("id").Find(&batches).Error
	return batches, err
}

func BySlug(db *gorm.DB, slug string) (*Batch, error) {
	var batch Batch
	if err := db.Where("slug = ?", slug).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}
