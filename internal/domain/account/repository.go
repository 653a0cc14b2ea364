package account

import (
	"context"
	"time"

	"github.com/caresync-app/caresync-api/internal/models"
)

type Store interface {
	// -------- Lookup --------
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByID(ctx context.Context, role Role, id uint) (Account, error)
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (Account, error)

	FindPatientByID(ctx context.Context, id uint) (*models.Patient, error)
	FindDoctorByID(ctx context.Context, id uint) (*models.Doctor, error)

	// -------- Create / update --------
	CreatePatient(ctx context.Context, p *models.Patient) error
	CreateDoctor(ctx context.Context, d *models.Doctor) error

	SavePatient(ctx context.Context, p *models.Patient) error
	SaveDoctor(ctx context.Context, d *models.Doctor) error

	// -------- Listing --------
	ListPatients(ctx context.Context) ([]models.Patient, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)

	// -------- Deletion --------
	// DeleteCascade removes the account and every appointment referencing
	// it, in one transaction.
	DeleteCascade(ctx context.Context, role Role, id uint) error
}
