package service

import (
	"context"
	"course-marketplace/internal/dto"
	"course-marketplace/internal/model"
	"course-marketplace/internal/pricing"
	"course-marketplace/internal/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CourseService interface {
	List(ctx context.Context, includeUnavailable bool) ([]*model.Course, error)
	Get(ctx context.Context, courseID uint, includeUnavailable bool) (*model.Course, error)
	Create(ctx context.Context, req *dto.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, courseID uint, req *dto.CourseRequest) (*model.Course, error)
	Delete(ctx context.Context, courseID uint) error
}

type courseServiceImpl struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
	}
}

func (s *courseServiceImpl) List(ctx context.Context, includeUnavailable bool) ([]*model.Course, error) {
	courses, err := s.courseRepo.List(ctx, !includeUnavailable)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *courseServiceImpl) Get(ctx context.Context, courseID uint, includeUnavailable bool) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !course.Available && !includeUnavailable {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CourseRequest) (*model.Course, error) {
	course, err := buildCourse(req, req.DiscountPrice)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

func (s *courseServiceImpl) Update(ctx context.Context, courseID uint, req *dto.CourseRequest) (*model.Course, error) {
	existing, err := s.Get(ctx, courseID, true)
	if err != nil {
		return nil, err
	}

	// An unchanged discount price next to a percentage means the percentage
	// or the price was edited, so the price is the side to recompute.
	discountPrice := req.DiscountPrice
	if discountPrice.Valid && req.DiscountPercentage.Valid && existing.DiscountPrice.Valid &&
		discountPrice.Decimal.Equal(existing.DiscountPrice.Decimal) {
		discountPrice = decimal.NullDecimal{}
	}

	course, err := buildCourse(req, discountPrice)
	if err != nil {
		return nil, err
	}
	course.ID = courseID
	course.CreatedAt = existing.CreatedAt

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}

	return s.Get(ctx, courseID, true)
}

func (s *courseServiceImpl) Delete(ctx context.Context, courseID uint) error {
	err := s.courseRepo.Delete(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCourseNotFound
	}
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func buildCourse(req *dto.CourseRequest, discountPrice decimal.NullDecimal) (*model.Course, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}

	discount, err := pricing.Derive(req.Price, discountPrice, req.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	lessons := make([]model.Lesson, len(req.Lessons))
	durations := make([]int, len(req.Lessons))
	for i, l := range req.Lessons {
		if strings.TrimSpace(l.Title) == "" {
			return nil, fmt.Errorf("%w: lessons[%d].title", ErrMissingField, i)
		}
		lessons[i] = model.Lesson{
			Position:        i + 1,
			Title:           strings.TrimSpace(l.Title),
			VideoURL:        strings.TrimSpace(l.VideoURL),
			DurationMinutes: l.DurationMinutes,
			Summary:         l.Summary,
			FAQ:             l.FAQ,
			Exercises:       l.Exercises,
		}
		durations[i] = l.DurationMinutes
	}

	return &model.Course{
		Title:              title,
		Description:        req.Description,
		Price:              discount.Price,
		DiscountPrice:      discount.DiscountPrice,
		DiscountPercentage: discount.DiscountPercentage,
		DurationMinutes:    pricing.TotalDuration(durations),
		Available:          req.Available,
		Lessons:            lessons,
	}, nil
}
