// Package adapters はoffenseフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"errors"

	"offense_board/internal/feature/offense/domain/entity"
	"offense_board/internal/feature/offense/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// offenseGorm はGORMを使用したOffenseRepositoryの実装です。
type offenseGorm struct {
	db *gorm.DB
}

var _ usecase.OffenseRepository = (*offenseGorm)(nil)

// NewOffenseRepository はoffenseGormの新しいインスタンスを生成します。
func NewOffenseRepository(db *gorm.DB) *offenseGorm {
	return &offenseGorm{db: db}
}

// Create inserts the offense. The author association is never written.
func (r *offenseGorm) Create(ctx context.Context, offense *entity.Offense) error {
	if offense == nil {
		return errors.New("offense is nil")
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(offense).Error
}

// ListByAuthor returns the author's offenses, newest first.
func (r *offenseGorm) ListByAuthor(ctx context.Context, authorID uint) ([]entity.Offense, error) {
	var offenses []entity.Offense
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&offenses).Error
	return offenses, err
}
