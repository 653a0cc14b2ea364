package models

import "time"

type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Address      string `gorm:"size:255" json:"address"`
	Age          int    `json:"age"`
	Gender       string `gorm:"size:10" json:"gender"`

	ImageURL string `gorm:"size:500" json:"image_url"`
	ImageKey string `gorm:"size:255" json:"-"`

	ResetTokenHash   string     `gorm:"size:64" json:"-"`
	ResetTokenExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
