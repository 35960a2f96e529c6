package handler

import (
	"course-marketplace/internal/client"
	"course-marketplace/internal/dto"
	"course-marketplace/internal/i18n"
	"course-marketplace/internal/middleware"
	"course-marketplace/internal/model"
	"course-marketplace/internal/service"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) Start(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.StartCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}
	if req.CourseID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "course_id is required"})
	}

	resp, err := h.checkoutService.Start(ctx, middleware.UserID(c), middleware.UserEmail(c), req.CourseID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, localizeSession(c, resp))
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	resp, err := h.checkoutService.Get(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, localizeSession(c, resp))
}

func (h *CheckoutHandler) Next(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	resp, err := h.checkoutService.Advance(ctx, middleware.UserID(c), c.Param("id"), req.Values)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, localizeSession(c, resp))
}

func (h *CheckoutHandler) Back(c echo.Context) error {
	resp, err := h.checkoutService.Back(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, localizeSession(c, resp))
}

// Submit returns the hosted payment page URL. Provider failures keep the
// provider's status but show the buyer a generic localized message.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	resp, err := h.checkoutService.Submit(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return echo.NewHTTPError(providerStatus(apiErr), dto.ErrorResponse{
				Error: i18n.T(requestLang(c), i18n.ErrCheckout),
			}).SetInternal(err)
		}
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Result is where the provider redirects the buyer after the hosted page.
func (h *CheckoutHandler) Result(c echo.Context) error {
	resp := h.checkoutService.Result(c.Request().Context(), service.ResultQuery{
		Success:   c.QueryParam("success"),
		CourseID:  c.QueryParam("courseId"),
		Message:   c.QueryParam("message"),
		SessionID: c.QueryParam("session"),
	}, requestLang(c))

	return c.JSON(http.StatusOK, resp)
}

// Notify receives the provider's server-to-server payment notification.
func (h *CheckoutHandler) Notify(c echo.Context) error {
	ctx := c.Request().Context()

	var n model.PaymentNotification
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	if err := h.checkoutService.Confirm(ctx, c.QueryParam("token"), &n); err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func localizeSession(c echo.Context, resp *dto.CheckoutSessionResponse) *dto.CheckoutSessionResponse {
	if resp.FailureReason != "" {
		resp.FailureReason = i18n.T(requestLang(c), resp.FailureReason)
	}
	return resp
}
