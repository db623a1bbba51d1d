// Package handler はmoderationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"offense_board/internal/feature/moderation/usecase"
	"offense_board/internal/platform/http/view"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

const listPath = "/admin/offenses"

// filterKeys are the query parameters that make up a listing.
var filterKeys = []string{"q", "approved", "created", "page"}

// ModerationUsecase defines the moderation operations used by the handler.
type ModerationUsecase interface {
	List(ctx context.Context, f usecase.Filter) (*usecase.Page, error)
	SetApproval(ctx context.Context, id uint, approved bool) error
}

// ModerationHandler serves the staff listing. Routes must be behind jwtmw.StaffRequired.
type ModerationHandler struct {
	moderation ModerationUsecase
}

// NewModerationHandler はModerationHandlerの新しいインスタンスを生成します。
func NewModerationHandler(moderation ModerationUsecase) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

type filterView struct {
	Query         string
	ApprovedParam string
	Created       string
}

type option struct {
	label string
	param string
}

var approvedOptions = []option{
	{"All", ""},
	{"Yes", "1"},
	{"No", "0"},
}

var createdOptions = []option{
	{"Any date", ""},
	{"Today", string(usecase.CreatedToday)},
	{"Past 7 days", string(usecase.CreatedPast7)},
	{"This month", string(usecase.CreatedMonth)},
	{"This year", string(usecase.CreatedYear)},
}

type choice struct {
	Label    string
	URL      string
	Selected bool
}

// List handles GET /admin/offenses?approved=&created=&q=&page=.
// Unknown filter values are ignored.
func (h *ModerationHandler) List(c *gin.Context) {
	values := canonicalQuery(c.Request.URL.Query())

	f := usecase.Filter{
		Created: usecase.CreatedRange(values.Get("created")),
		Query:   values.Get("q"),
	}
	switch values.Get("approved") {
	case "1":
		f.Approved = boolPtr(true)
	case "0":
		f.Approved = boolPtr(false)
	}
	f.Page, _ = strconv.Atoi(values.Get("page"))

	page, err := h.moderation.List(c.Request.Context(), f)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to list offenses", "error", err)
		view.ServerError(c)
		return
	}

	data := gin.H{
		"Page":     page,
		"RawQuery": values.Encode(),
		"Filter": filterView{
			Query:         values.Get("q"),
			ApprovedParam: values.Get("approved"),
			Created:       values.Get("created"),
		},
		"ApprovedChoices": choices(values, "approved", approvedOptions),
		"CreatedChoices":  choices(values, "created", createdOptions),
	}
	if page.Page > 1 {
		data["PrevURL"] = listURL(withParam(values, "page", strconv.Itoa(page.Page-1)))
	}
	if page.Page < page.Pages {
		data["NextURL"] = listURL(withParam(values, "page", strconv.Itoa(page.Page+1)))
	}

	view.Render(c, http.StatusOK, "admin_offenses.html", "Moderate offenses", data)
}

// SetApproval handles POST /admin/offenses/:id/approval with approved=true|false
// and redirects back to the listing it came from.
func (h *ModerationHandler) SetApproval(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		view.Error(c, http.StatusNotFound, "Offense not found.")
		return
	}
	approved, err := strconv.ParseBool(c.PostForm("approved"))
	if err != nil {
		view.Error(c, http.StatusBadRequest, "approved must be true or false.")
		return
	}

	err = h.moderation.SetApproval(c.Request.Context(), uint(id), approved)
	if errors.Is(err, usecase.ErrOffenseNotFound) {
		view.Error(c, http.StatusNotFound, "Offense not found.")
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to set approval", "error", err, "offense_id", id)
		view.ServerError(c)
		return
	}

	logger.FromContext(c.Request.Context()).Info("offense approval changed",
		"offense_id", id,
		"approved", approved,
		"moderator", jwtmw.CurrentAccount(c).Username,
	)

	back, _ := url.ParseQuery(c.PostForm("return_query"))
	c.Redirect(http.StatusSeeOther, listURL(canonicalQuery(back)))
}

// canonicalQuery keeps only known, non-empty listing parameters.
func canonicalQuery(in url.Values) url.Values {
	out := url.Values{}
	for _, key := range filterKeys {
		if v := in.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	if !usecase.CreatedRange(out.Get("created")).Valid() {
		out.Del("created")
	}
	if a := out.Get("approved"); a != "1" && a != "0" {
		out.Del("approved")
	}
	if p, err := strconv.Atoi(out.Get("page")); err != nil || p <= 1 {
		out.Del("page")
	}
	return out
}

// withParam returns a copy of values with key set, or removed when value is empty.
func withParam(values url.Values, key, value string) url.Values {
	out := url.Values{}
	for k, vs := range values {
		out[k] = append([]string(nil), vs...)
	}
	if value == "" {
		out.Del(key)
	} else {
		out.Set(key, value)
	}
	return out
}

// choices builds the links of one filter. A changed filter starts again
// from the first page.
func choices(values url.Values, key string, options []option) []choice {
	current := values.Get(key)
	out := make([]choice, len(options))
	for i, o := range options {
		next := withParam(values, key, o.param)
		next.Del("page")
		out[i] = choice{Label: o.label, URL: listURL(next), Selected: o.param == current}
	}
	return out
}

func listURL(values url.Values) string {
	if len(values) == 0 {
		return listPath
	}
	return listPath + "?" + values.Encode()
}

func boolPtr(b bool) *bool { return &b }
