package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `gorm:"not null;index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	DoctorID uint   `gorm:"not null;index" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	// Slot key: (doctor_id, date, time). A partial unique index over
	// non-cancelled rows is applied in db.NewDB.
	Date string `gorm:"size:10;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Reason string `gorm:"size:500" json:"reason"`

	// Doctor's fee captured at booking time; never recomputed.
	Fees int64 `gorm:"not null" json:"fees"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`
	Paid   bool   `gorm:"default:false" json:"paid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
