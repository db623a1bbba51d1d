// Package view renders HTML pages with the data every layout needs.
package view

import (
	"net/http"

	jwtmw "offense_board/internal/platform/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// Render writes the named template with Title, the current Account and the
// CSRF form field merged into data.
func Render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Account"] = jwtmw.CurrentAccount(c)
	data["CSRFField"] = csrf.TemplateField(c.Request)
	c.HTML(status, name, data)
}

// Error renders the generic error page and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	Render(c, status, "error.html", http.StatusText(status), gin.H{"Message": message})
	c.Abort()
}

// ServerError renders a 500 page without exposing err to the client.
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
