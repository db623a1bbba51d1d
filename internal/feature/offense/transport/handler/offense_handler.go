// Package handler はoffenseフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"offense_board/internal/feature/offense/domain/entity"
	"offense_board/internal/feature/offense/transport/http/dto"
	"offense_board/internal/feature/offense/usecase"
	"offense_board/internal/platform/http/form"
	"offense_board/internal/platform/http/view"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

// OffenseUsecase defines the offense operations used by the handler.
type OffenseUsecase interface {
	Create(ctx context.Context, authorID uint, in usecase.CreateInput) (*entity.Offense, error)
}

// OffenseHandler serves /offenses/new. Routes must be behind jwtmw.LoginRequired.
type OffenseHandler struct {
	offenses OffenseUsecase
}

// NewOffenseHandler はOffenseHandlerの新しいインスタンスを生成します。
func NewOffenseHandler(offenses OffenseUsecase) *OffenseHandler {
	return &OffenseHandler{offenses: offenses}
}

// NewForm renders an empty post form.
func (h *OffenseHandler) NewForm(c *gin.Context) {
	h.render(c, http.StatusOK, dto.CreateOffenseForm{}, nil)
}

// Create handles POST /offenses/new and redirects to the profile on success.
func (h *OffenseHandler) Create(c *gin.Context) {
	account := jwtmw.CurrentAccount(c)

	var f dto.CreateOffenseForm
	if errs := form.Bind(c, &f); errs != nil {
		h.render(c, http.StatusBadRequest, f, errs)
		return
	}

	offense, err := h.offenses.Create(c.Request.Context(), account.ID, usecase.CreateInput{
		Title:   f.Title,
		Content: f.Content,
	})
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		h.render(c, http.StatusBadRequest, f, form.Errors(verr.Fields))
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to create offense", "error", err, "username", account.Username)
		view.ServerError(c)
		return
	}

	logger.FromContext(c.Request.Context()).Info("offense created", "offense_id", offense.ID, "username", account.Username)
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *OffenseHandler) render(c *gin.Context, status int, f dto.CreateOffenseForm, errs form.Errors) {
	view.Render(c, status, "create_offense.html", "Report an offense", gin.H{"Form": f, "Errors": errs})
}
