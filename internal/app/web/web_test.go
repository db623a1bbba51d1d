package web

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountentity "offense_board/internal/feature/account/domain/entity"
	"offense_board/internal/platform/http/form"
)

const csrfField = template.HTML(`<input type="hidden" name="csrf_token" value="tok">`)

func render(t *testing.T, name string, data map[string]any) string {
	t.Helper()

	data["CSRFField"] = csrfField
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestTemplates_RenderAnonymous(t *testing.T) {
	t.Parallel()

	pages := []string{
		"index.html",
		"register.html",
		"login.html",
		"create_offense.html",
		"edit_profile.html",
		"forbidden.html",
		"error.html",
	}

	for _, name := range pages {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := render(t, name, map[string]any{"Title": "Page", "Form": map[string]string{}})

			assert.Contains(t, out, "<title>Page | Offense Board</title>")
			assert.Contains(t, out, `href="/login"`)
		})
	}
}

func TestTemplates_NavForStaff(t *testing.T) {
	t.Parallel()

	out := render(t, "index.html", map[string]any{
		"Title":   "Home",
		"Account": &accountentity.Account{Username: "mod", IsStaff: true},
	})

	assert.Contains(t, out, "Welcome back, mod.")
	assert.Contains(t, out, `href="/admin/offenses"`)
	assert.NotContains(t, out, `href="/login"`)
}

func TestTemplates_FieldErrors(t *testing.T) {
	t.Parallel()

	out := render(t, "register.html", map[string]any{
		"Title": "Register",
		"Form":  map[string]string{"Username": "al<ice"},
		"Errors": form.Errors{
			"username":    {"A user with that username already exists."},
			form.NonField: {"Something went wrong."},
		},
	})

	assert.Contains(t, out, `<p class="error">A user with that username already exists.</p>`)
	assert.Contains(t, out, `<p class="error">Something went wrong.</p>`)
	assert.Contains(t, out, `value="al&lt;ice"`)
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	d := time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "1990-02-03", formatDate(&d))
	assert.Equal(t, "", formatDate(nil))
}

func TestTemplates_FormsCarryCSRFField(t *testing.T) {
	t.Parallel()

	pages := []string{"register.html", "login.html", "create_offense.html", "edit_profile.html"}
	for _, name := range pages {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := render(t, name, map[string]any{"Title": "Page", "Form": map[string]string{}})

			assert.Contains(t, out, string(csrfField))
		})
	}
}

func TestTemplates_LogoutFormCarriesCSRFField(t *testing.T) {
	t.Parallel()

	out := render(t, "index.html", map[string]any{
		"Title":   "Home",
		"Account": &accountentity.Account{Username: "alice"},
	})

	assert.Contains(t, out, `<form method="post" action="/logout" class="inline">`+string(csrfField))
}
