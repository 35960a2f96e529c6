package handler

import (
	"course-marketplace/internal/client"
	"course-marketplace/internal/dto"
	"course-marketplace/internal/i18n"
	"course-marketplace/internal/pricing"
	"course-marketplace/internal/service"
	"course-marketplace/internal/wizard"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func requestLang(c echo.Context) i18n.Lang {
	if lang := c.QueryParam("lang"); lang != "" {
		return i18n.Parse(lang)
	}
	return i18n.Parse(c.Request().Header.Get("Accept-Language"))
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
	}
	return uint(id), nil
}

// providerStatus forwards the provider's error status, or 500 when it is not
// an error status.
func providerStatus(apiErr *client.APIError) int {
	if apiErr.StatusCode >= 400 && apiErr.StatusCode <= 599 {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// httpError maps service errors onto HTTP statuses. The original error stays
// attached for the request logger.
func httpError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var fe wizard.FieldErrors
	if errors.As(err, &fe) {
		lang := requestLang(c)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "validation failed",
			Fields: fe.Localize(func(key string) string {
				return i18n.T(lang, key)
			}),
		}).SetInternal(err)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(providerStatus(apiErr), dto.ErrorResponse{Error: apiErr.Message}).SetInternal(err)
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	switch {
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidEndpoint),
		errors.Is(err, service.ErrNotifyRejected):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, pricing.ErrInvalidDiscount),
		errors.Is(err, service.ErrInvalidProgress):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrEnrollmentMissing):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrCourseUnavailable),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrSubmitInProgress):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrForbidden):
		code, msg = http.StatusForbidden, err.Error()
	}

	return echo.NewHTTPError(code, dto.ErrorResponse{Error: msg}).SetInternal(err)
}
