// Package adapters はaccountフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"offense_board/internal/feature/account/domain/entity"
	"offense_board/internal/feature/account/usecase"
)

// accountGorm はAccountRepositoryインターフェースのGORM実装です。
type accountGorm struct {
	db *gorm.DB
}

// accountGormがAccountRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AccountRepository = (*accountGorm)(nil)

// NewAccountRepository は指定されたgorm.DB接続でaccountGormの新しいインスタンスを生成します。
func NewAccountRepository(db *gorm.DB) *accountGorm {
	return &accountGorm{db: db}
}

// Create はアカウントと関連するプロフィールを1つのトランザクションで追加します。
// ユーザー名が重複している場合、usecase.ErrUsernameTakenを返します。
func (r *accountGorm) Create(ctx context.Context, a *entity.Account) error {
	if a == nil {
		return errors.New("account is nil")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(a).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// FindByUsername はユーザー名でアカウントを取得します。
// 存在しない場合、usecase.ErrAccountNotFoundを返します。
func (r *accountGorm) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByID はIDでアカウントを取得します。
// 存在しない場合、usecase.ErrAccountNotFoundを返します。
func (r *accountGorm) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// SetStaff はモデレーション権限を付与または剥奪します。
func (r *accountGorm) SetStaff(ctx context.Context, username string, staff bool) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("username = ?", username).
		Update("is_staff", staff)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrAccountNotFound
	}
	return nil
}
