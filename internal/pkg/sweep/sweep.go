// Package sweep implements the expiring-subscriptions batch scan run by
// cmd/expiry-sweep.
package sweep

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/billing"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/mail"
)

// Sweeper scans the subscription mirror and notifies the operator.
type Sweeper struct {
	Billing *billing.Service
	Mailer  mail.Mailer
	ToEmail string
}

// Run performs one single-pass scan: every currently ACTIVE subscription
// produces one notification email when an operator address is configured.
// Expiration-window filtering is a policy extension point; the shipped
// policy is "all active". No scanned row is mutated.
//
// The first scan or send failure aborts the run; the caller exits non-zero.
func (s *Sweeper) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log.Printf("expiry sweep %s: starting scan", runID)

	subs, err := s.Billing.ActiveSubscriptions()
	if err != nil {
		return fmt.Errorf("expiry sweep %s: scan failed: %w", runID, err)
	}

	if s.ToEmail == "" {
		log.Printf("expiry sweep %s: no operator email configured, scanned %d subscriptions", runID, len(subs))
		return nil
	}

	for _, sub := range subs {
		body := fmt.Sprintf("Subscription for shop %s is expiring soon or overdue.", sub.Shop)
		if err := s.Mailer.Send(ctx, s.ToEmail, "Subscription Expiring Soon", body); err != nil {
			return fmt.Errorf("expiry sweep %s: notify for shop %s failed: %w", runID, sub.Shop, err)
		}
	}

	log.Printf("expiry sweep %s: checked %d subscriptions and sent notifications", runID, len(subs))
	return nil
}
