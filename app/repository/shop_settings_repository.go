package repository

import (
	"errors"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shopSettingsRepository implements the ShopSettingsRepository interface
type shopSettingsRepository struct {
	db *gorm.DB
}

// NewShopSettingsRepository creates a new shop settings repository instance
func NewShopSettingsRepository(db *gorm.DB) ShopSettingsRepository {
	return &shopSettingsRepository{db: db}
}

// GetByShop retrieves the settings row for a shop, gorm.ErrRecordNotFound if absent
func (r *shopSettingsRepository) GetByShop(shop string) (*models.ShopSettings, error) {
	var settings models.ShopSettings
	if err := r.db.Where("shop = ?", shop).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetOrCreate returns the shop's settings row, lazily creating it with
// defaults on first access. Concurrent first loads are safe: the unique
// index on shop turns the race into a re-read.
func (r *shopSettingsRepository) GetOrCreate(shop string) (*models.ShopSettings, error) {
	settings, err := r.GetByShop(shop)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := models.DefaultShopSettings(shop)
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}},
		DoNothing: true,
	}).Create(defaults).Error; err != nil {
		return nil, err
	}
	return r.GetByShop(shop)
}

// Upsert creates the row if absent, otherwise updates only the given columns
// so writers touching disjoint fields never clobber each other's values.
// Last writer wins per column, which matches the one-admin-per-shop model.
func (r *shopSettingsRepository) Upsert(settings *models.ShopSettings, columns ...string) (*models.ShopSettings, error) {
	if len(columns) == 0 {
		columns = []string{"corner", "padding_x", "padding_y", "is_enabled", "button_text"}
	}
	columns = append(columns, "updated_at")

	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(settings).Error; err != nil {
		return nil, err
	}

	// Re-read so callers see the stored row, including untouched columns.
	return r.GetByShop(settings.Shop)
}
