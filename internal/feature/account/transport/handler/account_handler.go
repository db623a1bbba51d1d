// Package handler はaccountフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"offense_board/internal/feature/account/domain/entity"
	"offense_board/internal/feature/account/transport/http/dto"
	"offense_board/internal/feature/account/usecase"
	"offense_board/internal/platform/http/form"
	"offense_board/internal/platform/http/view"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	msgUsernameTaken      = "A user with that username already exists."
	msgInvalidCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

// AccountUsecase は登録・認証・セッション操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AccountUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.Account, error)
	Authenticate(ctx context.Context, username, password string) (*entity.Account, error)
	StartSession(ctx context.Context, accountID uint, meta usecase.SessionMeta) (string, error)
	EndSession(ctx context.Context, token string) error
}

// AccountHandler serves the landing, registration, login and logout pages.
type AccountHandler struct {
	accounts AccountUsecase
	cookie   jwtmw.CookieConfig
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(accounts AccountUsecase, cookie jwtmw.CookieConfig) *AccountHandler {
	return &AccountHandler{accounts: accounts, cookie: cookie}
}

// Index renders the landing page.
func (h *AccountHandler) Index(c *gin.Context) {
	view.Render(c, http.StatusOK, "index.html", "Home", nil)
}

// RegisterForm renders an empty registration form.
func (h *AccountHandler) RegisterForm(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, dto.RegisterForm{}, nil)
}

// Register handles POST /register.
// - 入力エラー時は400で再描画
// - ユーザー名重複時は409で再描画
// - 成功時はセッションを開始し / へ303リダイレクト
func (h *AccountHandler) Register(c *gin.Context) {
	var f dto.RegisterForm
	if errs := form.Bind(c, &f); errs != nil {
		h.renderRegister(c, http.StatusBadRequest, f, errs)
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), usecase.RegisterInput{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password1,
	})
	var policyErr *usecase.PasswordPolicyError
	switch {
	case errors.Is(err, usecase.ErrUsernameTaken):
		logger.FromContext(c.Request.Context()).Info("registration rejected: username taken", "username", f.Username)
		h.renderRegister(c, http.StatusConflict, f, form.Errors{"username": {msgUsernameTaken}})
		return
	case errors.As(err, &policyErr):
		h.renderRegister(c, http.StatusBadRequest, f, form.Errors{"password2": policyErr.Problems})
		return
	case err != nil:
		logger.FromContext(c.Request.Context()).Error("registration failed", "error", err, "username", f.Username)
		view.ServerError(c)
		return
	}

	logger.FromContext(c.Request.Context()).Info("account registered", "username", account.Username)
	if !h.startSession(c, account) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// LoginForm renders the login form, keeping the "next" query parameter.
func (h *AccountHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, dto.LoginForm{Next: c.Query("next")}, nil)
}

// Login handles POST /login.
func (h *AccountHandler) Login(c *gin.Context) {
	var f dto.LoginForm
	if errs := form.Bind(c, &f); errs != nil {
		h.renderLogin(c, http.StatusBadRequest, f, errs)
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), f.Username, f.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		// ユーザー列挙攻撃を防止するため、どちらが誤っているかは返さない
		logger.FromContext(c.Request.Context()).Warn("login failed", "username", f.Username)
		h.renderLogin(c, http.StatusBadRequest, f, form.Errors{form.NonField: {msgInvalidCredentials}})
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("login error", "error", err)
		view.ServerError(c)
		return
	}

	logger.FromContext(c.Request.Context()).Info("login successful", "username", account.Username)
	if !h.startSession(c, account) {
		return
	}
	c.Redirect(http.StatusSeeOther, SafeNext(f.Next))
}

// Logout revokes the current session and clears the cookie.
func (h *AccountHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(jwtmw.CookieName); err == nil && token != "" {
		if err := h.accounts.EndSession(c.Request.Context(), token); err != nil {
			logger.FromContext(c.Request.Context()).Error("logout failed", "error", err)
		}
	}
	jwtmw.ClearSessionCookie(c, h.cookie)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AccountHandler) startSession(c *gin.Context, account *entity.Account) bool {
	token, err := h.accounts.StartSession(c.Request.Context(), account.ID, usecase.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to start session", "error", err, "username", account.Username)
		view.ServerError(c)
		return false
	}
	jwtmw.SetSessionCookie(c, h.cookie, token)
	return true
}

func (h *AccountHandler) renderRegister(c *gin.Context, status int, f dto.RegisterForm, errs form.Errors) {
	view.Render(c, status, "register.html", "Register", gin.H{"Form": f, "Errors": errs})
}

func (h *AccountHandler) renderLogin(c *gin.Context, status int, f dto.LoginForm, errs form.Errors) {
	view.Render(c, status, "login.html", "Log in", gin.H{"Form": f, "Errors": errs})
}

// SafeNext returns next when it is a local absolute path, otherwise "/".
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
