package payments

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/config"
)

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{webhookSecret: cfg.StripeWebhookSecret}
}

func (g *StripeGateway) CreateIntent(
	ctx context.Context,
	amount int64,
	currency string,
	appointmentID uint,
) (string, error) {

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount * 100), // smallest currency unit
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.AddMetadata("appointment_id", strconv.FormatUint(uint64(appointmentID), 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", apperr.Dependency("payment intent creation failed")
	}
	return pi.ClientSecret, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (Event, error) {
	ev, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return Event{}, apperr.Validation("invalid webhook signature")
	}

	if ev.Type != "payment_intent.succeeded" {
		return Event{Type: string(ev.Type)}, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return Event{}, apperr.Validation("malformed webhook payload")
	}

	id, err := strconv.ParseUint(pi.Metadata["appointment_id"], 10, 64)
	if err != nil {
		return Event{}, apperr.Validation("webhook event missing appointment reference")
	}

	return Event{Type: EventPaymentSucceeded, AppointmentID: uint(id)}, nil
}

var _ Gateway = (*StripeGateway)(nil)
