// Package dto defines the form payloads of the profile pages.
package dto

import "offense_board/internal/feature/profile/domain/entity"

// EditProfileForm is the payload of POST /profile/edit. Every field is optional.
type EditProfileForm struct {
	Bio       string `form:"bio" binding:"max=500"`
	Location  string `form:"location" binding:"max=100"`
	BirthDate string `form:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// EditProfileFormFrom binds the form to a stored profile.
func EditProfileFormFrom(p *entity.Profile) EditProfileForm {
	f := EditProfileForm{Bio: p.Bio, Location: p.Location}
	if p.BirthDate != nil {
		f.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return f
}
