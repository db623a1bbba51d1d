// Package handler はprofileフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	offenseentity "offense_board/internal/feature/offense/domain/entity"
	"offense_board/internal/feature/profile/domain/entity"
	"offense_board/internal/feature/profile/transport/http/dto"
	"offense_board/internal/feature/profile/usecase"
	"offense_board/internal/platform/http/form"
	"offense_board/internal/platform/http/view"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

// ProfileUsecase defines the profile operations used by the handler.
type ProfileUsecase interface {
	Get(ctx context.Context, accountID uint) (*entity.Profile, error)
	Update(ctx context.Context, accountID uint, in usecase.UpdateInput) (*entity.Profile, error)
}

// OffenseLister lists the offenses an account has submitted.
type OffenseLister interface {
	ListByAuthor(ctx context.Context, authorID uint) ([]offenseentity.Offense, error)
}

// ProfileHandler serves /profile and /profile/edit. Routes must be behind jwtmw.LoginRequired.
type ProfileHandler struct {
	profiles ProfileUsecase
	offenses OffenseLister
}

// NewProfileHandler はProfileHandlerの新しいインスタンスを生成します。
func NewProfileHandler(profiles ProfileUsecase, offenses OffenseLister) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, offenses: offenses}
}

// View renders the current account, its profile and its own offenses.
func (h *ProfileHandler) View(c *gin.Context) {
	account := jwtmw.CurrentAccount(c)
	ctx := c.Request.Context()

	profile, err := h.profiles.Get(ctx, account.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	offenses, err := h.offenses.ListByAuthor(ctx, account.ID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list own offenses", "error", err, "username", account.Username)
		view.ServerError(c)
		return
	}

	view.Render(c, http.StatusOK, "profile.html", "Profile", gin.H{
		"Profile":  profile,
		"Offenses": offenses,
	})
}

// EditForm renders the edit form bound to the stored profile.
func (h *ProfileHandler) EditForm(c *gin.Context) {
	account := jwtmw.CurrentAccount(c)

	profile, err := h.profiles.Get(c.Request.Context(), account.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderEdit(c, http.StatusOK, dto.EditProfileFormFrom(profile), nil)
}

// Edit handles POST /profile/edit. On failure the submitted values are shown again
// and the stored profile is left untouched.
func (h *ProfileHandler) Edit(c *gin.Context) {
	account := jwtmw.CurrentAccount(c)

	var f dto.EditProfileForm
	if errs := form.Bind(c, &f); errs != nil {
		h.renderEdit(c, http.StatusBadRequest, f, errs)
		return
	}

	_, err := h.profiles.Update(c.Request.Context(), account.ID, usecase.UpdateInput{
		Bio:       f.Bio,
		Location:  f.Location,
		BirthDate: f.BirthDate,
	})
	var fieldErr *usecase.FieldError
	if errors.As(err, &fieldErr) {
		h.renderEdit(c, http.StatusBadRequest, f, form.Errors{fieldErr.Field: {fieldErr.Message}})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("profile updated", "username", account.Username)
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *ProfileHandler) renderEdit(c *gin.Context, status int, f dto.EditProfileForm, errs form.Errors) {
	view.Render(c, status, "edit_profile.html", "Edit profile", gin.H{"Form": f, "Errors": errs})
}

func (h *ProfileHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrProfileNotFound) {
		view.Error(c, http.StatusNotFound, "Profile not found.")
		return
	}
	logger.FromContext(c.Request.Context()).Error("profile request failed", "error", err)
	view.ServerError(c)
}
