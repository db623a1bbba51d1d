// Package entity defines the domain entities for the profile feature.
package entity

import "time"

// Profile is the optional biographical extension of an account.
// Exactly one Profile exists per account; it is created together with the account.
type Profile struct {
	ID        uint       `gorm:"primaryKey"`
	AccountID uint       `gorm:"uniqueIndex;not null"`
	Bio       string     `gorm:"size:500;not null;default:''"`
	Location  string     `gorm:"size:100;not null;default:''"`
	BirthDate *time.Time `gorm:"type:date"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}
