package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"landing_relay_app_go/config"
	"landing_relay_app_go/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLandingHandler(t *testing.T) {
	e := echo.New()
	cfg := &config.Config{
		RecaptchaAPIKey:  "k",
		RecaptchaSiteKey: "public-site-key",
		SubmitPath:       "/api/submit",
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := middleware.CSPNonce()(LandingHandler(cfg))
	assert.NoError(t, handler(c))

	nonce := c.Get(string(middleware.NonceKey)).(string)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "enterprise.js?render=public-site-key")
	assert.Contains(t, rec.Body.String(), `nonce="`+nonce+`"`)
	assert.Contains(t, rec.Body.String(), "js-contact-form")
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, HealthCheck(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestJSONErrorHandler(t *testing.T) {
	e := echo.New()

	t.Run("HTTPError keeps its code and message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		JSONErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), e.NewContext(req, rec))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Not Found"}`, rec.Body.String())
	})

	t.Run("Unknown error is opaque", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		JSONErrorHandler(errors.New("db password is hunter2"), e.NewContext(req, rec))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rec.Body.String())
	})
}
