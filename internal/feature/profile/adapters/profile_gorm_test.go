package adapters

import (
	"context"
	"testing"
	"time"

	"offense_board/internal/feature/profile/domain/entity"
	"offense_board/internal/feature/profile/usecase"
	"offense_board/internal/platform/db/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t, &entity.Profile{})
}

func seedProfile(t *testing.T, db *gorm.DB, accountID uint) *entity.Profile {
	t.Helper()
	birth := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	p := &entity.Profile{AccountID: accountID, Bio: "old bio", Location: "Tallinn", BirthDate: &birth}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestProfileGorm_FindByAccountID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	seeded := seedProfile(t, db, 10)

	found, err := repo.FindByAccountID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Equal(t, "old bio", found.Bio)
	require.NotNil(t, found.BirthDate)
	assert.Equal(t, "1985-06-15", found.BirthDate.Format("2006-01-02"))

	_, err = repo.FindByAccountID(context.Background(), 99)
	assert.ErrorIs(t, err, usecase.ErrProfileNotFound)
}

func TestProfileGorm_Update(t *testing.T) {
	t.Run("overwrites fields in place", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProfileRepository(db)
		p := seedProfile(t, db, 1)

		newDate := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		p.Bio = "new bio"
		p.Location = "Vilnius"
		p.BirthDate = &newDate
		require.NoError(t, repo.Update(context.Background(), p))

		found, err := repo.FindByAccountID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, p.ID, found.ID, "the existing row is updated")
		assert.Equal(t, "new bio", found.Bio)
		assert.Equal(t, "Vilnius", found.Location)
		require.NotNil(t, found.BirthDate)
		assert.Equal(t, "2000-01-01", found.BirthDate.Format("2006-01-02"))

		var count int64
		db.Model(&entity.Profile{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("clears fields", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProfileRepository(db)
		p := seedProfile(t, db, 1)

		p.Bio = ""
		p.Location = ""
		p.BirthDate = nil
		require.NoError(t, repo.Update(context.Background(), p))

		found, err := repo.FindByAccountID(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, found.Bio)
		assert.Empty(t, found.Location)
		assert.Nil(t, found.BirthDate)
	})

	t.Run("missing row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProfileRepository(db)

		err := repo.Update(context.Background(), &entity.Profile{ID: 42})

		assert.ErrorIs(t, err, usecase.ErrProfileNotFound)
	})
}
