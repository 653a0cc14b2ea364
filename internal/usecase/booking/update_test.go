package booking

import (
	"context"
	"testing"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
)

func seedAppointment(t *testing.T, s *fakeAppointmentStore) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2026-09-15",
		Time:      "10:00",
		Reason:    "checkup",
		Fees:      500,
		Status:    string(domain.StatusPending),
	}
	if err := s.Create(context.Background(), ap); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ap
}

func statusPtr(s domain.Status) *domain.Status { return &s }
func boolPtr(b bool) *bool                     { return &b }
func strPtr(s string) *string                  { return &s }

func TestUpdateAppointmentDoctorConfirms(t *testing.T) {
	appointments, _ := newFixture()
	ap := seedAppointment(t, appointments)
	uc := NewUpdateAppointment(appointments, newTestDispatcher())

	got, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		CallerRole:    account.RoleDoctor,
		CallerID:      doctorID,
		AppointmentID: ap.ID,
		Patch:         domain.Patch{Status: statusPtr(domain.StatusConfirmed)},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
}

func TestUpdateAppointmentFailClosedLeavesRecordUntouched(t *testing.T) {
	appointments, _ := newFixture()
	uc := NewUpdateAppointment(appointments, newTestDispatcher())
	ctx := context.Background()

	cases := []struct {
		name       string
		callerRole account.Role
		callerID   uint
		patch      domain.Patch
		kind       apperr.Kind
	}{
		{
			// A patch mixing one permitted and one protected field is
			// rejected entirely; paid must not flip either.
			name:       "patient paid plus status",
			callerRole: account.RolePatient,
			callerID:   patientID,
			patch: domain.Patch{
				Paid:   boolPtr(true),
				Status: statusPtr(domain.StatusConfirmed),
			},
			kind: apperr.KindForbidden,
		},
		{
			name:       "doctor touches paid",
			callerRole: account.RoleDoctor,
			callerID:   doctorID,
			patch:      domain.Patch{Paid: boolPtr(true)},
			kind:       apperr.KindForbidden,
		},
		{
			name:       "patient touches reason",
			callerRole: account.RolePatient,
			callerID:   patientID,
			patch:      domain.Patch{Reason: strPtr("changed")},
			kind:       apperr.KindForbidden,
		},
		{
			name:       "foreign doctor",
			callerRole: account.RoleDoctor,
			callerID:   otherDoctorID,
			patch:      domain.Patch{Status: statusPtr(domain.StatusConfirmed)},
			kind:       apperr.KindForbidden,
		},
		{
			name:       "foreign patient",
			callerRole: account.RolePatient,
			callerID:   otherPatientID,
			patch:      domain.Patch{Paid: boolPtr(true)},
			kind:       apperr.KindForbidden,
		},
		{
			name:       "empty patch",
			callerRole: account.RoleAdmin,
			patch:      domain.Patch{},
			kind:       apperr.KindValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ap := seedAppointment(t, appointments)
			defer appointments.Delete(ctx, ap.ID)

			_, err := uc.Execute(ctx, UpdateAppointmentInput{
				CallerRole:    tc.callerRole,
				CallerID:      tc.callerID,
				AppointmentID: ap.ID,
				Patch:         tc.patch,
			})
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("error = %v, want kind %q", err, tc.kind)
			}

			stored, err := appointments.GetByID(ctx, ap.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if stored.Status != ap.Status || stored.Paid != ap.Paid || stored.Reason != ap.Reason {
				t.Errorf("record changed after rejected patch: %+v", stored)
			}
		})
	}
}

func TestUpdateAppointmentPatientMarksPaid(t *testing.T) {
	appointments, _ := newFixture()
	ap := seedAppointment(t, appointments)
	uc := NewUpdateAppointment(appointments, newTestDispatcher())

	got, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		CallerRole:    account.RolePatient,
		CallerID:      patientID,
		AppointmentID: ap.ID,
		Patch:         domain.Patch{Paid: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !got.Paid {
		t.Error("paid not set")
	}
}

func TestUpdateAppointmentTerminalStatusRejected(t *testing.T) {
	appointments, _ := newFixture()
	uc := NewUpdateAppointment(appointments, newTestDispatcher())
	ctx := context.Background()

	ap := seedAppointment(t, appointments)
	if _, err := uc.Execute(ctx, UpdateAppointmentInput{
		CallerRole:    account.RoleAdmin,
		AppointmentID: ap.ID,
		Patch:         domain.Patch{Status: statusPtr(domain.StatusCancelled)},
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Even admins cannot revive a terminal appointment.
	_, err := uc.Execute(ctx, UpdateAppointmentInput{
		CallerRole:    account.RoleAdmin,
		AppointmentID: ap.ID,
		Patch:         domain.Patch{Status: statusPtr(domain.StatusConfirmed)},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	appointments, _ := newFixture()
	uc := NewUpdateAppointment(appointments, newTestDispatcher())

	_, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		CallerRole:    account.RoleAdmin,
		AppointmentID: 42,
		Patch:         domain.Patch{Paid: boolPtr(true)},
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestMarkPaidReplaySafe(t *testing.T) {
	appointments, _ := newFixture()
	ap := seedAppointment(t, appointments)
	uc := NewMarkPaid(appointments, newTestDispatcher())
	ctx := context.Background()

	if err := uc.Execute(ctx, ap.ID); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if err := uc.Execute(ctx, ap.ID); err != nil {
		t.Fatalf("replayed capture: %v", err)
	}

	got, _ := appointments.GetByID(ctx, ap.ID)
	if !got.Paid {
		t.Error("paid not set")
	}

	if err := uc.Execute(ctx, 999); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown appointment error = %v, want not found", err)
	}
}
