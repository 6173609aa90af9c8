package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lafayette-apps/sticky-atc/app/models"
	"github.com/lafayette-apps/sticky-atc/app/repository"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/shopify"
	"gorm.io/gorm"
)

// SubscriptionName is the charge name shown on the merchant's invoice.
const SubscriptionName = "Sticky Add to Cart Subscription"

const (
	subscriptionPrice    = 5.0
	subscriptionCurrency = "USD"
)

// PlatformAPI is the slice of the Admin API the billing service needs.
type PlatformAPI interface {
	AppSubscriptionCreate(ctx context.Context, in shopify.AppSubscriptionCreateInput) (string, error)
	GetAppSubscription(ctx context.Context, chargeID string) (*shopify.AppSubscription, error)
}

// Service keeps the local subscription mirror in sync with the billing
// platform and answers licensing queries.
type Service struct {
	subs     repository.SubscriptionRepository
	installs repository.ShopInstallRepository

	// clientFor builds a platform client for a shop; tests replace it.
	clientFor func(shop string) (PlatformAPI, error)
}

// NewService creates a billing service from injected repositories.
func NewService(subs repository.SubscriptionRepository, installs repository.ShopInstallRepository) *Service {
	s := &Service{subs: subs, installs: installs}
	s.clientFor = s.defaultClientFor
	return s
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		repository.NewSubscriptionRepository(db),
		repository.NewShopInstallRepository(db),
	)
}

// WithClientFactory overrides platform client construction; used by tests.
func (s *Service) WithClientFactory(f func(shop string) (PlatformAPI, error)) *Service {
	s.clientFor = f
	return s
}

func (s *Service) defaultClientFor(shop string) (PlatformAPI, error) {
	install, err := s.installs.GetByShop(shop)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop %s has no stored access token", shop)
		}
		return nil, err
	}
	return shopify.NewClient(shop, install.AccessToken), nil
}

// IsLicensed reports whether the newest subscription row for the shop is
// ACTIVE. No row at all means unlicensed; any repository error resolves to
// unlicensed as well so callers fail closed.
func (s *Service) IsLicensed(shop string) bool {
	sub, err := s.subs.LatestByShop(shop)
	if err != nil {
		return false
	}
	return sub.IsActive()
}

// CreateSubscription starts a recurring charge on the platform and returns
// the confirmation URL the merchant must visit. The return URL encodes the
// shop so the callback can resume context without a session.
func (s *Service) CreateSubscription(ctx context.Context, shop string) (string, error) {
	if strings.TrimSpace(shop) == "" {
		return "", errors.New("shop is required")
	}

	client, err := s.clientFor(shop)
	if err != nil {
		return "", err
	}

	appURL := strings.TrimRight(env.GetEnv("SHOPIFY_APP_URL", ""), "/")
	returnURL := fmt.Sprintf("%s/api/billing/callback?shop=%s", appURL, url.QueryEscape(shop))

	return client.AppSubscriptionCreate(ctx, shopify.AppSubscriptionCreateInput{
		Name:      SubscriptionName,
		ReturnURL: returnURL,
		Test:      !env.IsProduction(),
		Amount:    subscriptionPrice,
		Currency:  subscriptionCurrency,
	})
}

// ConfirmCallback resolves the charge's current status from the platform and
// mirrors it locally. The callback path is the only one that creates rows:
// an existing row for the shop is updated in place, never duplicated.
func (s *Service) ConfirmCallback(ctx context.Context, shop, chargeID string) error {
	client, err := s.clientFor(shop)
	if err != nil {
		return err
	}

	sub, err := client.GetAppSubscription(ctx, chargeID)
	if err != nil {
		return err
	}

	existing, err := s.subs.FirstByShop(shop)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.subs.Create(&models.Subscription{
			Shop:     shop,
			ChargeID: chargeID,
			Status:   sub.Status,
		})
	}

	existing.Status = sub.Status
	existing.ChargeID = chargeID
	return s.subs.Update(existing)
}

// ApplyStatusUpdate handles a webhook status change. Webhooks are only
// authoritative for updates: when no row exists for the shop the update is
// silently dropped, creation belongs to the callback path alone.
func (s *Service) ApplyStatusUpdate(shop, status string) error {
	existing, err := s.subs.FirstByShop(shop)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	existing.Status = status
	return s.subs.Update(existing)
}

// ActiveSubscriptions lists every row the platform currently reports ACTIVE.
func (s *Service) ActiveSubscriptions() ([]models.Subscription, error) {
	return s.subs.ListByStatus(models.SubscriptionStatusActive)
}
