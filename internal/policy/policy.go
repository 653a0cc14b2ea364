// Package policy decides whether a caller may perform an action on a
// resource. Every decision is a pure function of the caller's role, the
// ownership relation and, for updates, the field set of the patch.
package policy

import (
	"github.com/caresync-app/caresync-api/internal/apperr"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
)

// protectedFields may only be touched by the owning patient (or an admin).
var protectedFields = map[string]bool{
	booking.FieldPaid: true,
}

// patientFields is the exhaustive set a patient may patch on their own
// appointment. Anything else in the patch rejects the patch wholesale.
var patientFields = map[string]bool{
	booking.FieldPaid: true,
}

// CanCreateAppointment gates booking: only a patient booking for themself.
func CanCreateAppointment(role account.Role, callerID, patientID uint) error {
	switch role {
	case account.RoleAdmin:
		return nil
	case account.RolePatient:
		if callerID != patientID {
			return apperr.Forbidden("patients can only book appointments for themselves")
		}
		return nil
	default:
		return apperr.Forbidden("only patients can book appointments")
	}
}

// CanReadAppointment scopes reads by ownership.
func CanReadAppointment(role account.Role, callerID uint, ap *models.Appointment) error {
	switch role {
	case account.RoleAdmin:
		return nil
	case account.RoleDoctor:
		if ap.DoctorID != callerID {
			return apperr.Forbidden("appointment belongs to another doctor")
		}
		return nil
	case account.RolePatient:
		if ap.PatientID != callerID {
			return apperr.Forbidden("appointment belongs to another patient")
		}
		return nil
	}
	return apperr.Forbidden("unknown role")
}

// CanApplyPatch is the field-level mutation gate. A single disallowed
// field rejects the entire patch.
func CanApplyPatch(role account.Role, callerID uint, ap *models.Appointment, patch booking.Patch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return apperr.Validation("empty update")
	}

	switch role {
	case account.RoleAdmin:
		return nil

	case account.RoleDoctor:
		if ap.DoctorID != callerID {
			return apperr.Forbidden("appointment belongs to another doctor")
		}
		for _, f := range fields {
			if protectedFields[f] {
				return apperr.Forbidden("doctors cannot change the " + f + " field")
			}
		}
		return nil

	case account.RolePatient:
		if ap.PatientID != callerID {
			return apperr.Forbidden("appointment belongs to another patient")
		}
		for _, f := range fields {
			if !patientFields[f] {
				return apperr.Forbidden("patients can only change the paid field")
			}
		}
		return nil
	}

	return apperr.Forbidden("unknown role")
}

// CanDeleteAppointment: admins unconditionally, patients only their own.
// Doctors never delete; they transition status instead.
func CanDeleteAppointment(role account.Role, callerID uint, ap *models.Appointment) error {
	switch role {
	case account.RoleAdmin:
		return nil
	case account.RolePatient:
		if ap.PatientID != callerID {
			return apperr.Forbidden("appointment belongs to another patient")
		}
		return nil
	case account.RoleDoctor:
		return apperr.Forbidden("doctors cannot delete appointments")
	}
	return apperr.Forbidden("unknown role")
}

// ListScope returns the ownership filter a listing must honor. Caller
// supplied filters are applied on top, never instead.
func ListScope(role account.Role, callerID uint, requested booking.Filter) (booking.Filter, error) {
	switch role {
	case account.RoleAdmin:
		return requested, nil
	case account.RoleDoctor:
		requested.DoctorID = callerID
		return requested, nil
	case account.RolePatient:
		requested.PatientID = callerID
		return requested, nil
	}
	return booking.Filter{}, apperr.Forbidden("unknown role")
}

// CanManageAccount gates profile reads/updates and account deletion:
// admins anything, everyone else only themself.
func CanManageAccount(callerRole account.Role, callerID uint, targetRole account.Role, targetID uint) error {
	if callerRole == account.RoleAdmin {
		return nil
	}
	if callerRole != targetRole || callerID != targetID {
		return apperr.Forbidden("cannot act on another account")
	}
	return nil
}
