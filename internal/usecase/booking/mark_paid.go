package booking

import (
	"context"

	"github.com/caresync-app/caresync-api/internal/audit"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
)

type MarkPaid struct {
	appointments domain.Store
	audit        *audit.Dispatcher
}

func NewMarkPaid(
	appointments domain.Store,
	audit *audit.Dispatcher,
) *MarkPaid {
	return &MarkPaid{
		appointments: appointments,
		audit:        audit,
	}
}

// Execute records a successful gateway payment. The webhook signature
// was already verified upstream, so no caller policy applies here.
// Replayed events are no-ops.
func (uc *MarkPaid) Execute(ctx context.Context, appointmentID uint) error {
	ap, err := uc.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	if ap.Paid {
		return nil
	}

	ap.Paid = true
	if err := uc.appointments.Save(ctx, ap); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorRole: "gateway",
		Action:    "payment_captured",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return nil
}
