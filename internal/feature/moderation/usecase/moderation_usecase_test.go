package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"offense_board/internal/feature/offense/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOffenseRepository is a mock implementation of OffenseRepository.
type mockOffenseRepository struct {
	SearchFunc      func(ctx context.Context, q SearchQuery) ([]entity.Offense, int64, error)
	SetApprovalFunc func(ctx context.Context, id uint, approved bool) error
}

func (m *mockOffenseRepository) Search(ctx context.Context, q SearchQuery) ([]entity.Offense, int64, error) {
	return m.SearchFunc(ctx, q)
}

func (m *mockOffenseRepository) SetApproval(ctx context.Context, id uint, approved bool) error {
	return m.SetApprovalFunc(ctx, id, approved)
}

var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func TestCreatedWindow(t *testing.T) {
	t.Parallel()

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		r          CreatedRange
		wantFrom   time.Time
		wantBefore time.Time
		wantOK     bool
	}{
		{CreatedToday, day(2024, 3, 15), day(2024, 3, 16), true},
		{CreatedPast7, day(2024, 3, 8), day(2024, 3, 16), true},
		{CreatedMonth, day(2024, 3, 1), day(2024, 4, 1), true},
		{CreatedYear, day(2024, 1, 1), day(2025, 1, 1), true},
		{CreatedAny, time.Time{}, time.Time{}, false},
		{"decade", time.Time{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			from, before, ok := createdWindow(tt.r, fixedNow)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.wantFrom.Equal(from), "from = %s", from)
			assert.True(t, tt.wantBefore.Equal(before), "before = %s", before)
		})
	}
}

func TestCreatedRange_Valid(t *testing.T) {
	t.Parallel()

	for _, r := range []CreatedRange{CreatedAny, CreatedToday, CreatedPast7, CreatedMonth, CreatedYear} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, CreatedRange("week").Valid())
}

func TestModerationUsecase_List_BuildsQuery(t *testing.T) {
	var got SearchQuery
	repo := &mockOffenseRepository{
		SearchFunc: func(_ context.Context, q SearchQuery) ([]entity.Offense, int64, error) {
			got = q
			return []entity.Offense{{ID: 1}}, 250, nil
		},
	}
	uc := NewModerationUsecase(repo, WithClock(func() time.Time { return fixedNow }))

	page, err := uc.List(context.Background(), Filter{
		Approved: boolPtr(false),
		Created:  CreatedToday,
		Query:    "  parking   Riga ",
		Page:     2,
	})

	require.NoError(t, err)
	require.NotNil(t, got.Approved)
	assert.False(t, *got.Approved)
	assert.Equal(t, []string{"parking", "Riga"}, got.Terms)
	require.NotNil(t, got.CreatedFrom)
	require.NotNil(t, got.CreatedBefore)
	assert.True(t, got.CreatedFrom.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, PageSize, got.Limit)
	assert.Equal(t, PageSize, got.Offset)

	assert.Equal(t, int64(250), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
}

func TestModerationUsecase_List_NoFilters(t *testing.T) {
	var got SearchQuery
	repo := &mockOffenseRepository{
		SearchFunc: func(_ context.Context, q SearchQuery) ([]entity.Offense, int64, error) {
			got = q
			return nil, 0, nil
		},
	}

	page, err := NewModerationUsecase(repo).List(context.Background(), Filter{})

	require.NoError(t, err)
	assert.Nil(t, got.Approved)
	assert.Nil(t, got.CreatedFrom)
	assert.Empty(t, got.Terms)
	assert.Equal(t, 0, got.Offset)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Pages)
}

func TestModerationUsecase_List_ClampsPage(t *testing.T) {
	var offsets []int
	repo := &mockOffenseRepository{
		SearchFunc: func(_ context.Context, q SearchQuery) ([]entity.Offense, int64, error) {
			offsets = append(offsets, q.Offset)
			if q.Offset >= 150 {
				return nil, 150, nil
			}
			return []entity.Offense{{ID: 1}}, 150, nil
		},
	}

	page, err := NewModerationUsecase(repo).List(context.Background(), Filter{Page: 9})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []int{800, 100}, offsets)
}

func TestModerationUsecase_List_Error(t *testing.T) {
	repo := &mockOffenseRepository{
		SearchFunc: func(context.Context, SearchQuery) ([]entity.Offense, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}

	_, err := NewModerationUsecase(repo).List(context.Background(), Filter{})

	assert.Error(t, err)
}

func TestModerationUsecase_SetApproval(t *testing.T) {
	tests := []struct {
		name     string
		approved bool
		repoErr  error
	}{
		{name: "approve", approved: true},
		{name: "revoke approval", approved: false},
		{name: "unknown offense", approved: true, repoErr: ErrOffenseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockOffenseRepository{
				SetApprovalFunc: func(_ context.Context, id uint, approved bool) error {
					assert.Equal(t, uint(8), id)
					assert.Equal(t, tt.approved, approved)
					return tt.repoErr
				},
			}

			err := NewModerationUsecase(repo).SetApproval(context.Background(), 8, tt.approved)

			if tt.repoErr != nil {
				assert.ErrorIs(t, err, tt.repoErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
