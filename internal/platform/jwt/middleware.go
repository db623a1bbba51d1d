package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"time"

	"offense_board/internal/feature/account/domain/entity"
	"offense_board/internal/feature/account/usecase"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "sessionid"
	// ContextAccount is the gin context key of the authenticated account.
	ContextAccount = "account"

	envKeyCookieSecure = "SESSION_COOKIE_SECURE"
)

// SessionResolver loads the account behind a session cookie value.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Account, error)
}

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// LoadCookieConfig reads SESSION_COOKIE_SECURE from the environment.
func LoadCookieConfig(maxAge time.Duration) CookieConfig {
	return CookieConfig{
		MaxAge: maxAge,
		Secure: os.Getenv(envKeyCookieSecure) == "true",
	}
}

// SetSessionCookie writes the signed session token as an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c *gin.Context, cfg CookieConfig, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(cfg.MaxAge.Seconds()), "/", "", cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", cfg.Secure, true)
}

// LoadSession resolves the session cookie, if any, and stores the account
// in the context. Requests without a valid session continue anonymously.
func LoadSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		account, err := resolver.ResolveSession(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ContextAccount, account)
		case isStaleSession(err):
			logger.FromContext(c.Request.Context()).Debug("ignoring stale session cookie", "error", err)
		default:
			logger.FromContext(c.Request.Context()).Error("failed to resolve session", "error", err)
		}
		c.Next()
	}
}

func isStaleSession(err error) bool {
	return errors.Is(err, usecase.ErrInvalidSessionToken) ||
		errors.Is(err, usecase.ErrSessionNotFound) ||
		errors.Is(err, usecase.ErrSessionRevoked) ||
		errors.Is(err, usecase.ErrSessionExpired) ||
		errors.Is(err, usecase.ErrAccountNotFound)
}

// CurrentAccount returns the authenticated account or nil.
func CurrentAccount(c *gin.Context) *entity.Account {
	v, ok := c.Get(ContextAccount)
	if !ok {
		return nil
	}
	account, _ := v.(*entity.Account)
	return account
}

// LoginRequired redirects anonymous requests to the login page,
// carrying the requested path in "next".
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentAccount(c) == nil {
			redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// StaffRequired allows only staff accounts. Anonymous requests are sent to
// the login page; other accounts get 403.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			redirectToLogin(c)
			return
		}
		if !account.IsStaff {
			logger.FromContext(c.Request.Context()).Warn("staff-only page refused", "username", account.Username)
			c.HTML(http.StatusForbidden, "forbidden.html", gin.H{
				"Title":     "Forbidden",
				"Account":   account,
				"CSRFField": csrf.TemplateField(c.Request),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}
