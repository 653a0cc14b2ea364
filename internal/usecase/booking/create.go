package booking

import (
	"context"
	"time"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
	"github.com/caresync-app/caresync-api/internal/policy"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	CallerRole account.Role
	CallerID   uint

	PatientID uint
	DoctorID  uint

	Date   string
	Time   string
	Reason string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	appointments domain.Store
	accounts     account.Store
	audit        *audit.Dispatcher
}

func NewCreateAppointment(
	appointments domain.Store,
	accounts account.Store,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		appointments: appointments,
		accounts:     accounts,
		audit:        audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.DoctorID == 0 || in.Date == "" || in.Time == "" {
		return nil, apperr.Validation("doctor, date and time are required")
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, apperr.Validation("time must be HH:MM")
	}

	if err := policy.CanCreateAppointment(in.CallerRole, in.CallerID, in.PatientID); err != nil {
		return nil, err
	}

	if _, err := uc.accounts.FindPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	doctor, err := uc.accounts.FindDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Available {
		return nil, apperr.Validation("doctor is not accepting appointments")
	}

	ap := &models.Appointment{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Time:      in.Time,
		Reason:    in.Reason,
		Fees:      doctor.Fees, // snapshot, immune to later fee changes
		Status:    string(domain.InitialStatus()),
		Paid:      false,
	}

	if err := uc.appointments.Create(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.CallerID,
		ActorRole: string(in.CallerRole),
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return uc.appointments.GetByID(ctx, ap.ID)
}
