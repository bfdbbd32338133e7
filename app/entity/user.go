package entity

import "time"

// User is an identity record. The confirmation and reset code fields are
// always set and cleared together with their expiry.
type User struct {
	ID                      uint64     `gorm:"primaryKey"`
	Email                   string     `gorm:"uniqueIndex;size:255;not null"`
	FirstName               string     `gorm:"size:255;not null"`
	LastName                string     `gorm:"size:255;not null"`
	HashedPassword          string     `gorm:"size:255;not null"`
	IsActive                bool       `gorm:"not null;default:true"`
	IsVerified              bool       `gorm:"not null;default:false"`
	ConfirmationCode        *string    `gorm:"size:6"`
	ConfirmationCodeExpires *time.Time
	ResetCode               *string    `gorm:"size:6"`
	ResetCodeExpires        *time.Time
	CreatedAt               time.Time
}
