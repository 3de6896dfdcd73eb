package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/config"
	"github.com/iliyamo/theatre-backoffice/internal/repository"
	"github.com/iliyamo/theatre-backoffice/internal/service"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

var errInvalidQuery = errors.New("invalid query parameter")

// getUserID extracts the user_id stored by JWTAuth and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// queryInt reads an optional non-negative integer query parameter.  A
// missing parameter yields def.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidQuery
	}
	return n, nil
}

// dateFilter reads the optional start_date/end_date query pair.
func dateFilter(c echo.Context) service.DateFilter {
	return service.DateFilter{
		StartDate: strings.TrimSpace(c.QueryParam("start_date")),
		EndDate:   strings.TrimSpace(c.QueryParam("end_date")),
	}
}

// respondError maps engine errors to HTTP status codes.  Anything it does
// not recognise is logged and reported as a 500 without details.
func respondError(c echo.Context, log logrus.FieldLogger, op string, err error) error {
	switch {
	case errors.Is(err, utils.ErrInvalidDate),
		errors.Is(err, utils.ErrInvalidMonth),
		errors.Is(err, utils.ErrInvalidRange),
		errors.Is(err, service.ErrRangeTooLarge),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentType),
		errors.Is(err, errInvalidQuery):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "a record for this date already exists"})
	case errors.Is(err, service.ErrSyncInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	config.LogError(log, "handler", op, c.Request().RequestURI, nil, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// bindAndValidate binds the request body and runs the struct tags through
// the echo validator.  It writes the 400 response itself and reports
// whether the handler may continue.
func bindAndValidate(c echo.Context, dst interface{}) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": validationErrors(err),
		})
	}
	return true, nil
}
