package notification

import (
	"context"
	"log"

	"github.com/bookmycampus/campus-booking-backend/internal/booking"
)

// LogNotifier writes booking transitions to the process log. It stands in
// for a mail or push gateway; the engine only sees booking.Notifier.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.Default()}
}

func (n *LogNotifier) BookingSubmitted(ctx context.Context, b *booking.Booking) error {
	n.logger.Printf("booking %s submitted by %s for %s [%s, %s)",
		b.ID, b.RequesterName, b.ResourceName, b.Window.Start.Format("2006-01-02 15:04"), b.Window.End.Format("15:04"))
	return nil
}

func (n *LogNotifier) BookingApproved(ctx context.Context, b *booking.Booking) error {
	n.logger.Printf("booking %s approved", b.ID)
	return nil
}

func (n *LogNotifier) BookingRejected(ctx context.Context, b *booking.Booking) error {
	reason := ""
	if b.RejectionReason != nil {
		reason = *b.RejectionReason
	}
	n.logger.Printf("booking %s rejected: %s", b.ID, reason)
	return nil
}

func (n *LogNotifier) BookingCancelled(ctx context.Context, b *booking.Booking) error {
	n.logger.Printf("booking %s cancelled", b.ID)
	return nil
}
