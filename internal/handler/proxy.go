package handler

import (
	"course-marketplace/internal/dto"
	"course-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProxyHandler struct {
	proxyService service.ProxyService
}

func NewProxyHandler(proxyService service.ProxyService) *ProxyHandler {
	return &ProxyHandler{
		proxyService: proxyService,
	}
}

// Token returns the provider's token reply verbatim.
func (h *ProxyHandler) Token(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	resp, err := h.proxyService.ExchangeToken(ctx, req.ID, req.Secret)
	if err != nil {
		return httpError(c, err)
	}

	return c.Blob(resp.StatusCode, resp.ContentType, resp.Body)
}

// Relay forwards data to the provider endpoint and relays the reply with
// its status unchanged.
func (h *ProxyHandler) Relay(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RelayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	resp, err := h.proxyService.Relay(ctx, req.Endpoint, req.Data, req.TokenRequest)
	if err != nil {
		return httpError(c, err)
	}

	return c.Blob(resp.StatusCode, resp.ContentType, resp.Body)
}
