// Package adapters はmoderationフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"strings"

	"offense_board/internal/feature/moderation/usecase"
	"offense_board/internal/feature/offense/domain/entity"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// offenseGorm はモデレーション用のOffenseRepository実装です。
type offenseGorm struct {
	db *gorm.DB
}

var _ usecase.OffenseRepository = (*offenseGorm)(nil)

// NewOffenseRepository はoffenseGormの新しいインスタンスを生成します。
func NewOffenseRepository(db *gorm.DB) *offenseGorm {
	return &offenseGorm{db: db}
}

// filters applies every condition of q.
func filters(q usecase.SearchQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Approved != nil {
			db = db.Where("is_approved = ?", *q.Approved)
		}
		if q.CreatedFrom != nil {
			db = db.Where("created_at >= ?", *q.CreatedFrom)
		}
		if q.CreatedBefore != nil {
			db = db.Where("created_at < ?", *q.CreatedBefore)
		}
		for _, term := range q.Terms {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
			db = db.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return db
	}
}

// Search は条件に一致するオフェンスを新しい順に返します。
func (r *offenseGorm) Search(ctx context.Context, q usecase.SearchQuery) ([]entity.Offense, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Offense{}).
		Scopes(filters(q)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var offenses []entity.Offense
	err := r.db.WithContext(ctx).
		Scopes(filters(q)).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&offenses).Error
	if err != nil {
		return nil, 0, err
	}
	return offenses, total, nil
}

// SetApproval は承認フラグのみを更新します。
func (r *offenseGorm) SetApproval(ctx context.Context, id uint, approved bool) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Offense{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrOffenseNotFound
	}
	return nil
}
