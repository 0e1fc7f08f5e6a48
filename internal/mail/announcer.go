package mail

import (
	"context"
	"fmt"

	"github.com/travel-deals/backend/internal/domain"
)

// messageSender is satisfied by *Sender.
type messageSender interface {
	Send(ctx context.Context, m Message) (string, error)
}

// DealAnnouncer emails a fixed recipient whenever a deal is created.
type DealAnnouncer struct {
	sender messageSender
	to     string
}

// NewDealAnnouncer returns an announcer that writes to to through sender.
func NewDealAnnouncer(sender messageSender, to string) *DealAnnouncer {
	return &DealAnnouncer{sender: sender, to: to}
}

// NotifyNewDeal renders and sends the new-deal email for d.
func (a *DealAnnouncer) NotifyNewDeal(ctx context.Context, d domain.Deal) error {
	msg, err := NewDealEmail(a.to, d)
	if err != nil {
		return err
	}
	if _, err := a.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("mail.DealAnnouncer.NotifyNewDeal: %w", err)
	}
	return nil
}
