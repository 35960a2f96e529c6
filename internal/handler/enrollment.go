package handler

import (
	"course-marketplace/internal/dto"
	"course-marketplace/internal/middleware"
	"course-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
	}
}

func (h *EnrollmentHandler) List(c echo.Context) error {
	enrollments, err := h.enrollmentService.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) UpdateProgress(c echo.Context) error {
	courseID, err := parseID(c, "courseId")
	if err != nil {
		return err
	}

	var req dto.ProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	enrollment, err := h.enrollmentService.UpdateProgress(c.Request().Context(), middleware.UserID(c), courseID, req.CurrentLesson)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) GetProfile(c echo.Context) error {
	user, err := h.enrollmentService.GetProfile(c.Request().Context(), middleware.UserID(c), middleware.UserEmail(c))
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *EnrollmentHandler) UpdateProfile(c echo.Context) error {
	var req dto.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	user, err := h.enrollmentService.UpdateProfile(c.Request().Context(), middleware.UserID(c), middleware.UserEmail(c), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
