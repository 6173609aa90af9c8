package repository

import (
	"github.com/lafayette-apps/sticky-atc/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// LatestByShop returns the newest-by-creation row for a shop. Multiple rows
// per shop are legal; the newest one is authoritative for licensing.
func (r *subscriptionRepository) LatestByShop(shop string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("shop = ?", shop).
		Order("created_at DESC, id DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FirstByShop returns the oldest row for a shop. The billing callback and
// webhook paths update this row in place instead of stacking duplicates.
func (r *subscriptionRepository) FirstByShop(shop string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("shop = ?", shop).
		Order("created_at ASC, id ASC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// ListByStatus returns all rows with the given platform status.
func (r *subscriptionRepository) ListByStatus(status string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("status = ?", status).Find(&subs).Error
	return subs, err
}
