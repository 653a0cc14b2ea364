package booking

import (
	"context"
	"testing"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
)

func TestDeleteAppointmentPermissions(t *testing.T) {
	cases := []struct {
		name       string
		callerRole account.Role
		callerID   uint
		kind       apperr.Kind // empty means success
	}{
		{"admin", account.RoleAdmin, 0, ""},
		{"owning patient", account.RolePatient, patientID, ""},
		{"other patient", account.RolePatient, otherPatientID, apperr.KindForbidden},
		{"doctor", account.RoleDoctor, doctorID, apperr.KindForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appointments, _ := newFixture()
			ap := seedAppointment(t, appointments)
			uc := NewDeleteAppointment(appointments, newTestDispatcher())
			ctx := context.Background()

			err := uc.Execute(ctx, tc.callerRole, tc.callerID, ap.ID)
			if tc.kind == "" {
				if err != nil {
					t.Fatalf("Execute: %v", err)
				}
				if _, err := appointments.GetByID(ctx, ap.ID); !apperr.Is(err, apperr.KindNotFound) {
					t.Error("appointment still present after delete")
				}
				return
			}

			if !apperr.Is(err, tc.kind) {
				t.Fatalf("error = %v, want kind %q", err, tc.kind)
			}
			if _, err := appointments.GetByID(ctx, ap.ID); err != nil {
				t.Error("appointment removed despite rejected delete")
			}
		})
	}
}

func TestDeleteAppointmentNotFound(t *testing.T) {
	appointments, _ := newFixture()
	uc := NewDeleteAppointment(appointments, newTestDispatcher())

	err := uc.Execute(context.Background(), account.RoleAdmin, 0, 42)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("error = %v, want not found", err)
	}
}
