package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"offense_board/internal/feature/offense/domain/entity"
)

// MaxTitleLength is the longest accepted title, in characters.
const MaxTitleLength = 200

// OffenseRepository はオフェンスの永続化層を抽象化します。
type OffenseRepository interface {
	Create(ctx context.Context, offense *entity.Offense) error
	// ListByAuthor returns the author's offenses, newest first.
	ListByAuthor(ctx context.Context, authorID uint) ([]entity.Offense, error)
}

// CreateInput carries the submitted post form.
type CreateInput struct {
	Title   string
	Content string
}

// OffenseUsecase creates offenses and lists an author's own submissions.
type OffenseUsecase struct {
	offenses OffenseRepository
}

// NewOffenseUsecase はOffenseUsecaseの新しいインスタンスを生成します。
func NewOffenseUsecase(offenses OffenseRepository) *OffenseUsecase {
	return &OffenseUsecase{offenses: offenses}
}

// Create stores a new unapproved offense authored by authorID.
// Title and content are trimmed; both are required.
func (u *OffenseUsecase) Create(ctx context.Context, authorID uint, in CreateInput) (*entity.Offense, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	verr := &ValidationError{}
	if title == "" {
		verr.add("title", "This field is required.")
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		verr.add("title", fmt.Sprintf("Ensure this value has at most %d characters.", MaxTitleLength))
	}
	if content == "" {
		verr.add("content", "This field is required.")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	offense := &entity.Offense{
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		IsApproved: false,
	}
	if err := u.offenses.Create(ctx, offense); err != nil {
		return nil, fmt.Errorf("failed to create offense: %w", err)
	}
	return offense, nil
}

// ListByAuthor returns the author's offenses, newest first.
func (u *OffenseUsecase) ListByAuthor(ctx context.Context, authorID uint) ([]entity.Offense, error) {
	return u.offenses.ListByAuthor(ctx, authorID)
}
