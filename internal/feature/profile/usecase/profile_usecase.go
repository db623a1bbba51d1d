package usecase

import (
	"context"
	"fmt"
	"time"

	"offense_board/internal/feature/profile/domain/entity"
)

// DateLayout is the accepted birth date format.
const DateLayout = "2006-01-02"

// ProfileRepository はプロフィールの永続化層を抽象化します。
type ProfileRepository interface {
	// FindByAccountID returns ErrProfileNotFound when the account has no profile.
	FindByAccountID(ctx context.Context, accountID uint) (*entity.Profile, error)
	// Update overwrites bio, location and birth date of an existing profile.
	Update(ctx context.Context, profile *entity.Profile) error
}

// UpdateInput carries the submitted edit form. Empty strings clear a field.
type UpdateInput struct {
	Bio       string
	Location  string
	BirthDate string
}

// ProfileUsecase reads and edits the profile of the current account.
type ProfileUsecase struct {
	profiles ProfileRepository
}

// NewProfileUsecase はProfileUsecaseの新しいインスタンスを生成します。
func NewProfileUsecase(profiles ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles}
}

// Get returns the profile owned by accountID.
func (u *ProfileUsecase) Get(ctx context.Context, accountID uint) (*entity.Profile, error) {
	return u.profiles.FindByAccountID(ctx, accountID)
}

// Update validates the input and rewrites the existing profile in place.
// An unparseable birth date yields a *FieldError and nothing is written.
func (u *ProfileUsecase) Update(ctx context.Context, accountID uint, in UpdateInput) (*entity.Profile, error) {
	var birthDate *time.Time
	if in.BirthDate != "" {
		d, err := time.Parse(DateLayout, in.BirthDate)
		if err != nil {
			return nil, &FieldError{Field: "birth_date", Message: "Enter a valid date."}
		}
		birthDate = &d
	}

	profile, err := u.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	profile.Bio = in.Bio
	profile.Location = in.Location
	profile.BirthDate = birthDate
	if err := u.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}
