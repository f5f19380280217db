package handlers

import (
	"net/http"

	"landing_relay_app_go/config"
	"landing_relay_app_go/middleware"
	"landing_relay_app_go/templates/pages"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// LandingHandler renders the marketing page with the contact forms
func LandingHandler(cfg *config.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		return render(c, pages.Landing(pages.LandingProps{
			Title:      "Free Project Estimate",
			SiteKey:    cfg.RecaptchaSiteKey,
			SubmitPath: cfg.SubmitPath,
			Checkbox:   cfg.VerificationMode() == config.ModeSiteVerify,
			Nonce:      middleware.GetNonce(c.Request().Context()),
		}))
	}
}

// HealthCheck handler for monitoring
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
