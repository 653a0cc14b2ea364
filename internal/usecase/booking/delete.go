package booking

import (
	"context"

	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/policy"
)

type DeleteAppointment struct {
	appointments domain.Store
	audit        *audit.Dispatcher
}

func NewDeleteAppointment(
	appointments domain.Store,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		appointments: appointments,
		audit:        audit,
	}
}

// Execute removes the appointment: admins unconditionally, patients only
// their own. Doctors cancel through a status update instead.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	callerRole account.Role,
	callerID uint,
	appointmentID uint,
) error {

	ap, err := uc.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := policy.CanDeleteAppointment(callerRole, callerID, ap); err != nil {
		return err
	}

	if err := uc.appointments.Delete(ctx, ap.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &callerID,
		ActorRole: string(callerRole),
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return nil
}
