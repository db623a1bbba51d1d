// Package usecase implements the staff moderation of offenses.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"offense_board/internal/feature/offense/domain/entity"
)

// PageSize is the number of offenses per listing page.
const PageSize = 100

// ErrOffenseNotFound is returned when the offense to moderate does not exist.
var ErrOffenseNotFound = errors.New("offense not found")

// CreatedRange selects a creation date window.
type CreatedRange string

const (
	CreatedAny   CreatedRange = ""
	CreatedToday CreatedRange = "today"
	CreatedPast7 CreatedRange = "past7"
	CreatedMonth CreatedRange = "month"
	CreatedYear  CreatedRange = "year"
)

// Valid reports whether r is a known range.
func (r CreatedRange) Valid() bool {
	switch r {
	case CreatedAny, CreatedToday, CreatedPast7, CreatedMonth, CreatedYear:
		return true
	}
	return false
}

// Filter is the listing request coming from the query string.
type Filter struct {
	Approved *bool
	Created  CreatedRange
	Query    string
	Page     int
}

// SearchQuery is the repository-level form of a Filter.
type SearchQuery struct {
	Approved      *bool
	CreatedFrom   *time.Time // inclusive
	CreatedBefore *time.Time // exclusive
	Terms         []string   // each term must match title or content
	Offset        int
	Limit         int
}

// Page is one page of the moderation listing.
type Page struct {
	Items []entity.Offense
	Total int64
	Page  int
	Pages int
}

// OffenseRepository はモデレーション用のオフェンス検索と更新を抽象化します。
type OffenseRepository interface {
	// Search returns the matching offenses, newest first, with their authors
	// loaded, plus the total number of matches.
	Search(ctx context.Context, q SearchQuery) ([]entity.Offense, int64, error)
	// SetApproval returns ErrOffenseNotFound when id does not exist.
	SetApproval(ctx context.Context, id uint, approved bool) error
}

// ModerationUsecase lists offenses for staff and toggles their approval.
type ModerationUsecase struct {
	offenses OffenseRepository
	now      func() time.Time
}

// Option customizes a ModerationUsecase.
type Option func(*ModerationUsecase)

// WithClock overrides time.Now, used to compute date windows.
func WithClock(now func() time.Time) Option {
	return func(u *ModerationUsecase) { u.now = now }
}

// NewModerationUsecase はModerationUsecaseの新しいインスタンスを生成します。
func NewModerationUsecase(offenses OffenseRepository, opts ...Option) *ModerationUsecase {
	u := &ModerationUsecase{offenses: offenses, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// List returns the page of offenses matching f. Pages outside the result
// range are clamped to the first or last page.
func (u *ModerationUsecase) List(ctx context.Context, f Filter) (*Page, error) {
	q := SearchQuery{
		Approved: f.Approved,
		Terms:    strings.Fields(f.Query),
		Limit:    PageSize,
	}
	if from, before, ok := createdWindow(f.Created, u.now()); ok {
		q.CreatedFrom, q.CreatedBefore = &from, &before
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	q.Offset = (page - 1) * PageSize

	items, total, err := u.offenses.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search offenses: %w", err)
	}

	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
		q.Offset = (page - 1) * PageSize
		if items, total, err = u.offenses.Search(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to search offenses: %w", err)
		}
	}

	return &Page{Items: items, Total: total, Page: page, Pages: pages}, nil
}

// SetApproval sets the approval flag of one offense. Both directions are allowed.
func (u *ModerationUsecase) SetApproval(ctx context.Context, id uint, approved bool) error {
	return u.offenses.SetApproval(ctx, id, approved)
}

// createdWindow returns [from, before) for r in now's location.
// Every window ends at the end of the current period.
func createdWindow(r CreatedRange, now time.Time) (time.Time, time.Time, bool) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	switch r {
	case CreatedToday:
		return today, tomorrow, true
	case CreatedPast7:
		return today.AddDate(0, 0, -7), tomorrow, true
	case CreatedMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return first, first.AddDate(0, 1, 0), true
	case CreatedYear:
		first := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return first, first.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}
