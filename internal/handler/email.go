package handler

import (
	"course-marketplace/internal/dto"
	"course-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type EmailHandler struct {
	notificationService service.NotificationService
}

func NewEmailHandler(notificationService service.NotificationService) *EmailHandler {
	return &EmailHandler{
		notificationService: notificationService,
	}
}

func (h *EmailHandler) Send(c echo.Context) error {
	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	id, err := h.notificationService.Send(c.Request().Context(), req.To, req.Subject, req.HTML)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, dto.EmailResponse{ID: id})
}
