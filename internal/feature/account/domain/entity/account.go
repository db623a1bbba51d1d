// Package entity defines the domain entities for the account feature.
package entity

import (
	"time"

	profileentity "offense_board/internal/feature/profile/domain/entity"
)

// Account represents a registered end-user identity.
type Account struct {
	// ID is the unique identifier for the account.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all accounts.
	Username string `gorm:"uniqueIndex;size:150;not null"`

	// Email is the contact address supplied at registration.
	Email string `gorm:"size:254;not null"`

	// Password is the bcrypt hash of the account password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// IsStaff grants access to the moderation views.
	IsStaff bool `gorm:"not null;default:false"`

	// Profile is created in the same transaction as the account.
	Profile *profileentity.Profile `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (Account) TableName() string {
	return "accounts"
}
