// Package csrfmw protects form posts with a double-submit token.
package csrfmw

import (
	"context"
	"crypto/sha256"
	"net/http"
	"os"

	"offense_board/internal/platform/http/view"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	// EnvKeyCSRFKey optionally sets the token signing key. When unset the
	// key is derived from the session secret.
	EnvKeyCSRFKey = "CSRF_KEY"

	// FieldName is the hidden form input carrying the token.
	FieldName = "csrf_token"
	// CookieName holds the unmasked token.
	CookieName = "csrftoken"

	msgRejected = "CSRF verification failed. Request aborted."
)

type ginContextKey struct{}

// LoadKey returns a 32-byte key from CSRF_KEY, or from sessionSecret when unset.
func LoadKey(sessionSecret string) []byte {
	if v := os.Getenv(EnvKeyCSRFKey); v != "" {
		sum := sha256.Sum256([]byte(v))
		return sum[:]
	}
	sum := sha256.Sum256([]byte("csrf:" + sessionSecret))
	return sum[:]
}

// Middleware rejects unsafe requests whose form token does not match the
// token cookie. secure marks the cookie Secure and enables the Referer
// check that only applies to HTTPS.
func Middleware(key []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(key,
		csrf.CookieName(CookieName),
		csrf.FieldName(FieldName),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.Secure(secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(reject)),
	)
	next := protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		c.Request = r
		c.Next()
	}))

	return func(c *gin.Context) {
		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(c.Writer, r)
	}
}

func reject(_ http.ResponseWriter, r *http.Request) {
	c := r.Context().Value(ginContextKey{}).(*gin.Context)
	c.Request = r
	logger.FromContext(r.Context()).Warn("csrf check failed", "reason", csrf.FailureReason(r))
	view.Error(c, http.StatusForbidden, msgRejected)
}
