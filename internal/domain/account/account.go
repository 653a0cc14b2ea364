package account

import "github.com/caresync-app/caresync-api/internal/models"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func ValidRole(r Role) bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Account is the tagged result of a single identity lookup. Exactly one of
// Patient/Doctor is set; the admin identity is config-backed and never
// materializes as an Account.
type Account struct {
	Role    Role
	Patient *models.Patient
	Doctor  *models.Doctor
}

func FromPatient(p *models.Patient) Account {
	return Account{Role: RolePatient, Patient: p}
}

func FromDoctor(d *models.Doctor) Account {
	return Account{Role: RoleDoctor, Doctor: d}
}

func (a Account) ID() uint {
	switch a.Role {
	case RolePatient:
		return a.Patient.ID
	case RoleDoctor:
		return a.Doctor.ID
	}
	return 0
}

func (a Account) Email() string {
	switch a.Role {
	case RolePatient:
		return a.Patient.Email
	case RoleDoctor:
		return a.Doctor.Email
	}
	return ""
}

func (a Account) Name() string {
	switch a.Role {
	case RolePatient:
		return a.Patient.Name
	case RoleDoctor:
		return a.Doctor.Name
	}
	return ""
}

func (a Account) PasswordHash() string {
	switch a.Role {
	case RolePatient:
		return a.Patient.PasswordHash
	case RoleDoctor:
		return a.Doctor.PasswordHash
	}
	return ""
}

func (a Account) ImageKey() string {
	switch a.Role {
	case RolePatient:
		return a.Patient.ImageKey
	case RoleDoctor:
		return a.Doctor.ImageKey
	}
	return ""
}
