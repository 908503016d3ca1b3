package db

import (
	"fmt"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Reference data
		&types.Building{},
		&types.Location{},
		&types.User{},
		&types.ElementType{},

		// Uploaded models + parsed elements
		&types.IFCModel{},
		&types.ModelElement{},
	); err != nil {
		return err
	}
	return BackfillSearchText(db)
}

// BackfillSearchText fills search_text for elements stored before the column existed.
func BackfillSearchText(db *gorm.DB) error {
	var batch []*types.ModelElement
	res := db.Preload("ElementType").
		Where("search_text = ?", "").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for _, el := range batch {
				el.RefreshSearchText(el.ElementType)
				if err := tx.Session(&gorm.Session{NewDB: true}).
					Model(&types.ModelElement{}).
					Where("id = ?", el.ID).
					UpdateColumn("search_text", el.SearchText).Error; err != nil {
					return err
				}
			}
			return nil
		})
	if res.Error != nil {
		return fmt.Errorf("backfill element search text: %w", res.Error)
	}
	return nil
}
