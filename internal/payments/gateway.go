package payments

import "context"

// Event is a verified webhook notification. AppointmentID is set only
// for successful payment events.
type Event struct {
	Type          string
	AppointmentID uint
}

const EventPaymentSucceeded = "payment_succeeded"

type Gateway interface {
	// CreateIntent registers a payment for the given amount (major
	// units) and returns the client secret the frontend completes with.
	CreateIntent(ctx context.Context, amount int64, currency string, appointmentID uint) (string, error)

	// VerifyWebhook authenticates a raw webhook payload against its
	// signature and returns the decoded event.
	VerifyWebhook(payload []byte, signature string) (Event, error)
}
