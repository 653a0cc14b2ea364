package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/caresync-app/caresync-api/internal/apperr"
	domain "github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

// --------------------------------------------------
// Tagged lookup (patients first, then doctors)
// --------------------------------------------------

func (r *AccountGormRepository) FindByEmail(
	ctx context.Context,
	email string,
) (domain.Account, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err == nil {
		return domain.FromPatient(&p), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, err
	}

	var d models.Doctor
	err = r.db.WithContext(ctx).Where("email = ?", email).First(&d).Error
	if err == nil {
		return domain.FromDoctor(&d), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, err
	}

	return domain.Account{}, apperr.NotFound("account not found")
}

func (r *AccountGormRepository) FindByID(
	ctx context.Context,
	role domain.Role,
	id uint,
) (domain.Account, error) {

	switch role {
	case domain.RolePatient:
		p, err := r.FindPatientByID(ctx, id)
		if err != nil {
			return domain.Account{}, err
		}
		return domain.FromPatient(p), nil
	case domain.RoleDoctor:
		d, err := r.FindDoctorByID(ctx, id)
		if err != nil {
			return domain.Account{}, err
		}
		return domain.FromDoctor(d), nil
	}
	return domain.Account{}, apperr.NotFound("account not found")
}

func (r *AccountGormRepository) FindByResetTokenHash(
	ctx context.Context,
	hash string,
	now time.Time,
) (domain.Account, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expire > ?", hash, now).
		First(&p).Error
	if err == nil {
		return domain.FromPatient(&p), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, err
	}

	var d models.Doctor
	err = r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expire > ?", hash, now).
		First(&d).Error
	if err == nil {
		return domain.FromDoctor(&d), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, err
	}

	return domain.Account{}, apperr.Validation("invalid or expired reset token")
}

// --------------------------------------------------
// Single-kind lookups
// --------------------------------------------------

func (r *AccountGormRepository) FindPatientByID(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("patient not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *AccountGormRepository) FindDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var d models.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, err
	}
	return &d, nil
}

// --------------------------------------------------
// Create / update
// --------------------------------------------------

func (r *AccountGormRepository) CreatePatient(ctx context.Context, p *models.Patient) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if isUniqueViolation(err) {
		return apperr.Validation("email already registered")
	}
	return err
}

func (r *AccountGormRepository) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if isUniqueViolation(err) {
		return apperr.Validation("email already registered")
	}
	return err
}

func (r *AccountGormRepository) SavePatient(ctx context.Context, p *models.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *AccountGormRepository) SaveDoctor(ctx context.Context, d *models.Doctor) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AccountGormRepository) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *AccountGormRepository) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// --------------------------------------------------
// Cascading delete
// --------------------------------------------------

func (r *AccountGormRepository) DeleteCascade(
	ctx context.Context,
	role domain.Role,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var column string
		var model any
		switch role {
		case domain.RolePatient:
			column, model = "patient_id = ?", &models.Patient{}
		case domain.RoleDoctor:
			column, model = "doctor_id = ?", &models.Doctor{}
		default:
			return apperr.NotFound("account not found")
		}

		if err := tx.Where(column, id).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(model, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("account not found")
		}
		return nil
	})
}

// Compile-time check
var _ domain.Store = (*AccountGormRepository)(nil)
