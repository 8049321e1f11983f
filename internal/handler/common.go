// Package handler defines the HTTP handlers of the fitness tracker.
// Handlers bind request bodies, call into repositories or the
// schedule engine, and translate sentinel errors into HTTP status
// codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/apperr"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user's id placed in the
// context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		id, err := strconv.ParseUint(t, 10, 64)
		if err == nil {
			return id, nil
		}
	}
	return 0, errors.New("no user in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// fail maps sentinel errors to their HTTP status; anything
// unrecognized becomes a 500 with the fallback message.
func fail(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, apperr.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, apperr.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, apperr.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
}
