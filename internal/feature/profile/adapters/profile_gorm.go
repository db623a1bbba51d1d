// Package adapters はprofileフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"offense_board/internal/feature/profile/domain/entity"
	"offense_board/internal/feature/profile/usecase"

	"gorm.io/gorm"
)

// profileGorm はGORMを使用したProfileRepositoryの実装です。
type profileGorm struct {
	db *gorm.DB
}

var _ usecase.ProfileRepository = (*profileGorm)(nil)

// NewProfileRepository はprofileGormの新しいインスタンスを生成します。
func NewProfileRepository(db *gorm.DB) *profileGorm {
	return &profileGorm{db: db}
}

// FindByAccountID はアカウントIDでプロフィールを取得します。
func (r *profileGorm) FindByAccountID(ctx context.Context, accountID uint) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update は既存の行を更新します。空文字列やnilも明示的に書き込みます。
func (r *profileGorm) Update(ctx context.Context, p *entity.Profile) error {
	p.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("id = ?", p.ID).
		Select("bio", "location", "birth_date", "updated_at").
		Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrProfileNotFound
	}
	return nil
}
