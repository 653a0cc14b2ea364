package booking

import (
	"context"

	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
	"github.com/caresync-app/caresync-api/internal/policy"
)

type UpdateAppointmentInput struct {
	CallerRole account.Role
	CallerID   uint

	AppointmentID uint
	Patch         domain.Patch
}

type UpdateAppointment struct {
	appointments domain.Store
	audit        *audit.Dispatcher
}

func NewUpdateAppointment(
	appointments domain.Store,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		appointments: appointments,
		audit:        audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	// The whole patch is vetted before any field is applied.
	if err := policy.CanApplyPatch(in.CallerRole, in.CallerID, ap, in.Patch); err != nil {
		return nil, err
	}

	if in.Patch.Status != nil {
		if err := domain.CanTransition(domain.Status(ap.Status), *in.Patch.Status); err != nil {
			return nil, err
		}
		ap.Status = string(*in.Patch.Status)
	}
	if in.Patch.Paid != nil {
		ap.Paid = *in.Patch.Paid
	}
	if in.Patch.Reason != nil {
		ap.Reason = *in.Patch.Reason
	}

	if err := uc.appointments.Save(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.CallerID,
		ActorRole: string(in.CallerRole),
		Action:    "appointment_updated",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata:  map[string]any{"fields": in.Patch.Fields()},
	})

	return ap, nil
}
