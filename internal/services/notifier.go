package services

import (
	"context"
	"strings"
	"time"

	"travellink/internal/domain"
	"travellink/internal/domain/models"
	"travellink/internal/utils"
)

// Notifier delivers the booking confirmation to the customer.
type Notifier interface {
	SendConfirmation(ctx context.Context, rec models.BookingRecord) error
}

// SimulatedNotifier stands in for an email provider: it waits Latency and logs the send.
type SimulatedNotifier struct {
	Latency time.Duration
}

func (n SimulatedNotifier) SendConfirmation(ctx context.Context, rec models.BookingRecord) error {
	to := strings.TrimSpace(rec.Customer.Email)
	if to == "" {
		return domain.NotificationError{Recipient: "(none)", Err: domain.ValidationError{Field: "customerEmail", Msg: "is required"}}
	}
	if n.Latency > 0 {
		timer := time.NewTimer(n.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.NotificationError{Recipient: to, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	utils.LogEvent("", "notify", "confirmation_email", "sent "+rec.ConfirmationNumber+" to "+to)
	return nil
}
