package booking

import (
	"context"
	"time"

	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
)

type ListBookedSlots struct {
	appointments domain.Store
	accounts     account.Store
}

func NewListBookedSlots(
	appointments domain.Store,
	accounts account.Store,
) *ListBookedSlots {
	return &ListBookedSlots{
		appointments: appointments,
		accounts:     accounts,
	}
}

// Execute returns the occupied (date, time) pairs for a doctor from
// fromDate onward; clients compute free slots by exclusion.
func (uc *ListBookedSlots) Execute(
	ctx context.Context,
	doctorID uint,
	fromDate string,
) ([]domain.Slot, error) {

	if _, err := time.Parse("2006-01-02", fromDate); err != nil {
		return nil, apperr.Validation("from date must be YYYY-MM-DD")
	}

	if _, err := uc.accounts.FindDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	return uc.appointments.BookedSlots(ctx, doctorID, fromDate)
}
