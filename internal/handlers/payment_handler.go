package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/config"
	"github.com/caresync-app/caresync-api/internal/httpresp"
	"github.com/caresync-app/caresync-api/internal/middleware"
	"github.com/caresync-app/caresync-api/internal/payments"
	"github.com/caresync-app/caresync-api/internal/policy"
	ucBooking "github.com/caresync-app/caresync-api/internal/usecase/booking"
)

type PaymentHandler struct {
	gateway  payments.Gateway
	listUC   *ucBooking.ListAppointments
	markPaid *ucBooking.MarkPaid
	currency string
	log      *logrus.Logger
}

func NewPaymentHandler(
	gateway payments.Gateway,
	listUC *ucBooking.ListAppointments,
	markPaid *ucBooking.MarkPaid,
	cfg *config.Config,
	log *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		listUC:   listUC,
		markPaid: markPaid,
		currency: cfg.PaymentCurrency,
		log:      log,
	}
}

type CreateIntentRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

// CreateIntent starts payment for an unpaid appointment the caller owns.
// The charged amount is the appointment's fee snapshot.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.listUC.GetByID(c.Request.Context(), req.AppointmentID)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	if err := policy.CanReadAppointment(callerRole, callerID, ap); err != nil {
		apperr.WriteError(c, err)
		return
	}

	if ap.Paid {
		apperr.BadRequest(c, "already_paid", "Payment already completed.")
		return
	}

	clientSecret, err := h.gateway.CreateIntent(c.Request.Context(), ap.Fees, h.currency, ap.ID)
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"client_secret": clientSecret})
}

// Webhook receives gateway notifications. The raw body is verified
// against the signature header before anything is trusted.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperr.BadRequest(c, "invalid_payload", "Could not read webhook payload.")
		return
	}

	event, err := h.gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		apperr.WriteError(c, err)
		return
	}

	if event.Type != payments.EventPaymentSucceeded {
		httpresp.OK(c, gin.H{"received": true})
		return
	}

	if err := h.markPaid.Execute(c.Request.Context(), event.AppointmentID); err != nil {
		h.log.WithError(err).
			WithField("appointment_id", event.AppointmentID).
			Error("failed to record payment")
		apperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"received": true})
}
