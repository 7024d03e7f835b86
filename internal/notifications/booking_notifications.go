package notifications

import (
	"context"
	"errors"
	"fmt"

	"slotbook/internal/domain/pushtokens"

	"github.com/9ssi7/exponent"
)

type BookingEvent string

const (
	BookingConfirmed       BookingEvent = "CONFIRMED"
	BookingPaymentRefunded BookingEvent = "REFUNDED"
	BookingPaymentFailed   BookingEvent = "FAILED"
)

// SendBookingNotification pushes a booking event to every device the
// user has registered. Missing tokens are an error so callers can log
// it, not a silent success.
func SendBookingNotification(ctx context.Context, push PushSender, tokens pushtokens.Store, userID int64, event BookingEvent, bookingID int64) error {
	deviceTokens, err := tokens.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(deviceTokens) == 0 {
		return errors.New("no push tokens registered")
	}

	var title, body string
	switch event {
	case BookingConfirmed:
		title = "Booking Confirmed"
		body = fmt.Sprintf("Your booking #%d is confirmed. See you on the court!", bookingID)
	case BookingPaymentRefunded:
		title = "Payment Refunded"
		body = fmt.Sprintf("The payment for booking #%d has been refunded.", bookingID)
	case BookingPaymentFailed:
		title = "Payment Failed"
		body = fmt.Sprintf("The payment for booking #%d failed. Please try again.", bookingID)
	default:
		title = "Booking Update"
		body = fmt.Sprintf("Your booking #%d has an update.", bookingID)
	}

	msgs := make([]*exponent.Message, 0, len(deviceTokens))
	for _, t := range deviceTokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":      "booking",
				"event":     string(event),
				"bookingId": fmt.Sprintf("%d", bookingID),
				"screen":    "my-bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
