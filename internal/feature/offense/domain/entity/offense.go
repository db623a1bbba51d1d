// Package entity defines the domain entities for the offense feature.
package entity

import (
	"time"

	accountentity "offense_board/internal/feature/account/domain/entity"
)

// Offense is a short user-submitted report that stays hidden from the
// public until a moderator approves it.
type Offense struct {
	ID         uint                   `gorm:"primaryKey"`
	Title      string                 `gorm:"size:200;not null"`
	Content    string                 `gorm:"type:text;not null"`
	AuthorID   uint                   `gorm:"index;not null"`
	Author     *accountentity.Account `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	IsApproved bool                   `gorm:"index;not null;default:false"`
	CreatedAt  time.Time              `gorm:"index;not null;autoCreateTime;<-:create"`
}

// TableName returns the table name for GORM.
func (Offense) TableName() string {
	return "offenses"
}
