package booking

import (
	"context"

	"github.com/caresync-app/caresync-api/internal/models"
)

// Filter narrows a listing. Zero values mean "no constraint".
type Filter struct {
	PatientID uint
	DoctorID  uint
}

// Slot is one booked (date, time) pair for a doctor.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type Store interface {
	// Create inserts the appointment if its slot key is free among
	// non-cancelled rows. The conflict check and the insert are atomic;
	// an occupied slot yields apperr.KindSlotConflict.
	Create(ctx context.Context, ap *models.Appointment) error

	// GetByID returns the appointment with patient and doctor expanded.
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)

	Save(ctx context.Context, ap *models.Appointment) error

	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, f Filter) ([]models.Appointment, error)

	// BookedSlots returns the non-cancelled (date, time) pairs for the
	// doctor from fromDate (inclusive) onward.
	BookedSlots(ctx context.Context, doctorID uint, fromDate string) ([]Slot, error)
}
