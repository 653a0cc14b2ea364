package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	Speciality   string `gorm:"size:100;not null" json:"speciality"`
	Degree       string `gorm:"size:100" json:"degree"`
	Experience   int    `json:"experience"`
	Fees         int64  `gorm:"not null;check:fees >= 0" json:"fees"`
	About        string `gorm:"size:2000" json:"about"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`

	Available bool `gorm:"default:true" json:"available"`

	ImageURL string `gorm:"size:500" json:"image_url"`
	ImageKey string `gorm:"size:255" json:"-"`

	ResetTokenHash   string     `gorm:"size:64" json:"-"`
	ResetTokenExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
