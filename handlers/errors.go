package handlers

import (
	"errors"
	"net/http"

	"landing_relay_app_go/models"

	"github.com/labstack/echo/v4"
)

// JSONErrorHandler renders every error that escapes a handler in the relay's
// {success:false,error} envelope. Unknown errors become an opaque 500.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	} else {
		c.Logger().Errorf("Unhandled error: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, models.SubmitResponse{Success: false, Error: message})
	}
	if err != nil {
		c.Logger().Errorf("Failed to write error response: %v", err)
	}
}
