package repository

import (
	"github.com/lafayette-apps/sticky-atc/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// shopInstallRepository implements the ShopInstallRepository interface
type shopInstallRepository struct {
	db *gorm.DB
}

// NewShopInstallRepository creates a new shop install repository instance
func NewShopInstallRepository(db *gorm.DB) ShopInstallRepository {
	return &shopInstallRepository{db: db}
}

func (r *shopInstallRepository) GetByShop(shop string) (*models.ShopInstall, error) {
	var install models.ShopInstall
	if err := r.db.Where("shop = ?", shop).First(&install).Error; err != nil {
		return nil, err
	}
	return &install, nil
}

// Upsert stores or refreshes the offline token for a shop. Reinstalls rotate
// the token, so the conflict path always overwrites it.
func (r *shopInstallRepository) Upsert(install *models.ShopInstall) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"scope",
			"updated_at",
		}),
	}).Create(install).Error; err != nil {
		return err
	}

	return r.db.Where("shop = ?", install.Shop).First(install).Error
}
