package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
)

func TestCreateAppointmentSnapshotsFees(t *testing.T) {
	appointments, accounts := newFixture()
	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
		Reason:     "skin checkup",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.Fees != 500 {
		t.Errorf("fees = %d, want doctor's fee 500 snapshotted", ap.Fees)
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want %q", ap.Status, domain.StatusPending)
	}
	if ap.Paid {
		t.Error("new appointment must start unpaid")
	}
}

func TestCreateAppointmentFeeSnapshotImmutable(t *testing.T) {
	appointments, accounts := newFixture()
	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())
	ctx := context.Background()

	ap, err := uc.Execute(ctx, CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Raise the doctor's fee after booking.
	doc, _ := accounts.FindDoctorByID(ctx, doctorID)
	doc.Fees = 800
	if err := accounts.SaveDoctor(ctx, doc); err != nil {
		t.Fatalf("SaveDoctor: %v", err)
	}

	got, err := appointments.GetByID(ctx, ap.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Fees != 500 {
		t.Errorf("fees after doctor fee change = %d, want 500", got.Fees)
	}
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	appointments, accounts := newFixture()
	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())
	ctx := context.Background()

	first := CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	}
	if _, err := uc.Execute(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := first
	second.CallerID = otherPatientID
	second.PatientID = otherPatientID
	if _, err := uc.Execute(ctx, second); !apperr.Is(err, apperr.KindSlotConflict) {
		t.Errorf("duplicate slot error = %v, want slot conflict", err)
	}

	// Same time with another doctor is fine.
	third := second
	third.DoctorID = otherDoctorID
	if _, err := uc.Execute(ctx, third); err != nil {
		t.Errorf("other doctor, same time: %v", err)
	}
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	appointments, accounts := newFixture()
	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())

	callers := []uint{patientID, otherPatientID}
	errs := make([]error, len(callers))

	var wg sync.WaitGroup
	for i, id := range callers {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateAppointmentInput{
				CallerRole: account.RolePatient,
				CallerID:   id,
				PatientID:  id,
				DoctorID:   doctorID,
				Date:       "2026-09-15",
				Time:       "10:00",
			})
		}(i, id)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.KindSlotConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly 1 of each", ok, conflict)
	}
	if n := appointments.count(); n != 1 {
		t.Errorf("stored appointments = %d, want 1", n)
	}
}

func TestCreateAppointmentCancelledSlotReusable(t *testing.T) {
	appointments, accounts := newFixture()
	create := NewCreateAppointment(appointments, accounts, newTestDispatcher())
	update := NewUpdateAppointment(appointments, newTestDispatcher())
	ctx := context.Background()

	ap, err := create.Execute(ctx, CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	cancelled := domain.StatusCancelled
	if _, err := update.Execute(ctx, UpdateAppointmentInput{
		CallerRole:    account.RoleAdmin,
		AppointmentID: ap.ID,
		Patch:         domain.Patch{Status: &cancelled},
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := create.Execute(ctx, CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   otherPatientID,
		PatientID:  otherPatientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	}); err != nil {
		t.Errorf("rebooking a cancelled slot: %v", err)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	appointments, accounts := newFixture()
	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())
	ctx := context.Background()

	base := CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	}

	cases := []struct {
		name   string
		mutate func(*CreateAppointmentInput)
		kind   apperr.Kind
	}{
		{"missing doctor", func(in *CreateAppointmentInput) { in.DoctorID = 0 }, apperr.KindValidation},
		{"bad date", func(in *CreateAppointmentInput) { in.Date = "15/09/2026" }, apperr.KindValidation},
		{"bad time", func(in *CreateAppointmentInput) { in.Time = "10am" }, apperr.KindValidation},
		{"unknown doctor", func(in *CreateAppointmentInput) { in.DoctorID = 999 }, apperr.KindNotFound},
		{"unknown patient", func(in *CreateAppointmentInput) {
			in.CallerRole = account.RoleAdmin
			in.PatientID = 999
		}, apperr.KindNotFound},
		{"booking for someone else", func(in *CreateAppointmentInput) { in.PatientID = otherPatientID }, apperr.KindForbidden},
		{"doctor caller", func(in *CreateAppointmentInput) {
			in.CallerRole = account.RoleDoctor
			in.CallerID = doctorID
		}, apperr.KindForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := uc.Execute(ctx, in); !apperr.Is(err, tc.kind) {
				t.Errorf("error = %v, want kind %q", err, tc.kind)
			}
		})
	}

	if n := appointments.count(); n != 0 {
		t.Errorf("stored appointments after rejected inputs = %d, want 0", n)
	}
}

func TestCreateAppointmentUnavailableDoctor(t *testing.T) {
	appointments, accounts := newFixture()
	ctx := context.Background()

	doc, _ := accounts.FindDoctorByID(ctx, doctorID)
	doc.Available = false
	if err := accounts.SaveDoctor(ctx, doc); err != nil {
		t.Fatalf("SaveDoctor: %v", err)
	}

	uc := NewCreateAppointment(appointments, accounts, newTestDispatcher())
	_, err := uc.Execute(ctx, CreateAppointmentInput{
		CallerRole: account.RolePatient,
		CallerID:   patientID,
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       "2026-09-15",
		Time:       "10:00",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error = %v, want validation", err)
	}
}
