package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"landing_relay_app_go/config"
	"landing_relay_app_go/models"
	"landing_relay_app_go/services"

	"github.com/labstack/echo/v4"
)

// maxBodyBytes bounds the submission body
const maxBodyBytes = 64 << 10

// Submitter runs a decoded submission through the relay
type Submitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload, remoteIP string) (*models.ForwardPayload, error)
}

// SubmitHandler serves the submission endpoint. It is mounted for every
// method so non-POST requests get the JSON 405 envelope.
func SubmitHandler(cfg *config.Config, relay Submitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return c.JSON(http.StatusMethodNotAllowed, models.SubmitResponse{Success: false, Error: "Method Not Allowed"})
		}

		// Misconfiguration outranks any input error
		if err := cfg.Validate(); err != nil {
			c.Logger().Errorf("Submission rejected, relay misconfigured: %v", err)
			return c.JSON(http.StatusInternalServerError, models.SubmitResponse{Success: false, Error: err.Error()})
		}

		var payload models.SubmissionPayload
		body := http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(&payload); err != nil {
			return c.JSON(http.StatusBadRequest, models.SubmitResponse{Success: false, Error: "Invalid JSON body"})
		}

		_, err := relay.Submit(c.Request().Context(), payload, c.RealIP())
		if err == nil {
			return c.JSON(http.StatusOK, models.SubmitResponse{Success: true, Message: "Form submitted successfully"})
		}

		var cfgErr *config.ConfigError
		var fieldErr *models.FieldError
		var policyErr *services.PolicyError
		switch {
		case errors.As(err, &cfgErr):
			c.Logger().Errorf("Submission rejected, relay misconfigured: %v", err)
			return c.JSON(http.StatusInternalServerError, models.SubmitResponse{Success: false, Error: cfgErr.Error()})
		case errors.As(err, &fieldErr):
			return c.JSON(http.StatusBadRequest, models.SubmitResponse{Success: false, Error: fieldErr.Message})
		case errors.As(err, &policyErr):
			c.Logger().Warnf("Verification policy rejected submission from %s: %s", c.RealIP(), policyErr.Reason)
			return c.JSON(http.StatusForbidden, models.SubmitResponse{
				Success: false,
				Error:   policyErr.Error(),
				Details: &models.RejectDetails{Reason: policyErr.Reason, Score: policyErr.Score},
			})
		default:
			c.Logger().Errorf("Submission failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.SubmitResponse{Success: false, Error: "Internal server error"})
		}
	}
}
