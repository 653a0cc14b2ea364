package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/caresync-app/caresync-api/internal/apperr"
	domain "github.com/caresync-app/caresync-api/internal/domain/booking"
	"github.com/caresync-app/caresync-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Create (slot check + insert in one transaction)
// --------------------------------------------------

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"doctor_id = ? AND date = ? AND time = ? AND status <> ?",
				ap.DoctorID, ap.Date, ap.Time, string(domain.StatusCancelled),
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return apperr.SlotConflict("slot is already booked")
		}

		return tx.Create(ap).Error
	})

	// The partial unique index backstops the locked check; translate a
	// race that slipped past it into the same conflict error.
	if isUniqueViolation(err) {
		return apperr.SlotConflict("slot is already booked")
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// --------------------------------------------------
// Read / update / delete
// --------------------------------------------------

func (r *AppointmentGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&ap, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) Save(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) Delete(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor")

	if f.PatientID != 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != 0 {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}

	var aps []models.Appointment
	if err := q.
		Order("date ASC, time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) BookedSlots(
	ctx context.Context,
	doctorID uint,
	fromDate string,
) ([]domain.Slot, error) {

	var slots []domain.Slot
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("date", "time").
		Where(
			"doctor_id = ? AND date >= ? AND status <> ?",
			doctorID, fromDate, string(domain.StatusCancelled),
		).
		Order("date ASC, time ASC").
		Scan(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Compile-time check
var _ domain.Store = (*AppointmentGormRepository)(nil)
