package booking

import "github.com/caresync-app/caresync-api/internal/apperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transition is allowed.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transitions
// ===============================

// CanTransition validates pending -> {confirmed, cancelled} and
// confirmed -> {completed, cancelled}. Terminal states admit nothing.
func CanTransition(from, to Status) error {
	if !ValidStatus(to) {
		return apperr.Validation("unknown appointment status")
	}
	if from == to {
		return nil
	}
	if IsTerminal(from) {
		return apperr.Validation("appointment is already " + string(from))
	}

	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	}

	return apperr.Validation("cannot move appointment from " + string(from) + " to " + string(to))
}

func InitialStatus() Status {
	return StatusPending
}
