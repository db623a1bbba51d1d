// Package router wires HTTP routes to feature handlers.
package router

import (
	"log/slog"
	"net/http"

	"offense_board/internal/app/web"
	accounthandler "offense_board/internal/feature/account/transport/handler"
	moderationhandler "offense_board/internal/feature/moderation/transport/handler"
	offensehandler "offense_board/internal/feature/offense/transport/handler"
	profilehandler "offense_board/internal/feature/profile/transport/handler"
	csrfmw "offense_board/internal/platform/csrf"
	"offense_board/internal/platform/http/handler"
	"offense_board/internal/platform/http/view"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups the feature handlers served by the router.
type Handlers struct {
	Account    *accounthandler.AccountHandler
	Profile    *profilehandler.ProfileHandler
	Offense    *offensehandler.OffenseHandler
	Moderation *moderationhandler.ModerationHandler
	Health     *handler.HealthHandler
}

// Config holds router-wide security settings.
type Config struct {
	// CSRFKey signs form tokens; see csrfmw.LoadKey.
	CSRFKey []byte
	// SecureCookies marks cookies Secure and assumes HTTPS.
	SecureCookies bool
}

func NewRouter(h Handlers, sessions jwtmw.SessionResolver, cfg Config, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.Use(
		gin.Recovery(),
		logger.Middleware(log),
		jwtmw.LoadSession(sessions),
		csrfmw.Middleware(cfg.CSRFKey, cfg.SecureCookies),
	)

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 認証不要
	r.GET("/", h.Account.Index)
	r.GET("/register", h.Account.RegisterForm)
	r.POST("/register", h.Account.Register)
	r.GET("/login", h.Account.LoginForm)
	r.POST("/login", h.Account.Login)
	r.POST("/logout", h.Account.Logout)

	// ログイン必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.LoginRequired())
	{
		auth.GET("/profile", h.Profile.View)
		auth.GET("/profile/edit", h.Profile.EditForm)
		auth.POST("/profile/edit", h.Profile.Edit)
		auth.GET("/offenses/new", h.Offense.NewForm)
		auth.POST("/offenses/new", h.Offense.Create)
	}

	// スタッフ専用のルート
	admin := r.Group("/admin")
	admin.Use(jwtmw.StaffRequired())
	{
		admin.GET("/offenses", h.Moderation.List)
		admin.POST("/offenses/:id/approval", h.Moderation.SetApproval)
	}

	r.NoRoute(func(c *gin.Context) {
		view.Error(c, http.StatusNotFound, "Page not found.")
	})

	return r
}
