package handler

import (
	"course-marketplace/internal/dto"
	"course-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context(), false)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	course, err := h.courseService.Get(c.Request().Context(), id, false)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) AdminList(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context(), true)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req dto.CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	course, err := h.courseService.Create(c.Request().Context(), &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid req body"})
	}

	course, err := h.courseService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.courseService.Delete(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
