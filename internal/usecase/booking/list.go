package booking

import (
	"context"

	"github.com/caresync-app/caresync-api/internal/domain/account"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
	"github.com/caresync-app/caresync-api/internal/policy"
)

type ListAppointments struct {
	appointments domain.Store
}

func NewListAppointments(appointments domain.Store) *ListAppointments {
	return &ListAppointments{appointments: appointments}
}

// Execute lists appointments inside the caller's ownership scope.
// Requested filters narrow the scope, never widen it.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	callerRole account.Role,
	callerID uint,
	requested domain.Filter,
) ([]models.Appointment, error) {

	scoped, err := policy.ListScope(callerRole, callerID, requested)
	if err != nil {
		return nil, err
	}

	return uc.appointments.List(ctx, scoped)
}

// GetByID fetches a single appointment with identities expanded; callers
// apply the read policy against the returned record.
func (uc *ListAppointments) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {
	return uc.appointments.GetByID(ctx, id)
}
