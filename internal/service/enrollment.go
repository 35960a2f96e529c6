package service

import (
	"context"
	"course-marketplace/internal/dto"
	"course-marketplace/internal/model"
	"course-marketplace/internal/repository"
	"course-marketplace/internal/wizard"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EnrollmentService serves the buyer's own view: enrollments, progress and
// profile.
type EnrollmentService interface {
	List(ctx context.Context, userID string) ([]*model.Enrollment, error)
	UpdateProgress(ctx context.Context, userID string, courseID uint, currentLesson int) (*model.Enrollment, error)
	GetProfile(ctx context.Context, userID, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, email string, req *dto.ProfileRequest) (*model.User, error)
}

type enrollmentServiceImpl struct {
	db             *gorm.DB
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	profileSteps   []wizard.Step
}

func NewEnrollmentService(db *gorm.DB, enrollmentRepo repository.EnrollmentRepository, userRepo repository.UserRepository) EnrollmentService {
	return &enrollmentServiceImpl{
		db:             db,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		profileSteps:   CheckoutSteps(),
	}
}

func (s *enrollmentServiceImpl) List(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentServiceImpl) UpdateProgress(ctx context.Context, userID string, courseID uint, currentLesson int) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentMissing
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}

	if enrollment.Status != model.EnrollmentActive {
		return nil, ErrForbidden
	}
	if currentLesson < 1 || currentLesson > enrollment.TotalLessons {
		return nil, ErrInvalidProgress
	}

	if err := s.enrollmentRepo.UpdateProgress(ctx, userID, courseID, currentLesson); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	enrollment.CurrentLesson = currentLesson
	return enrollment, nil
}

func (s *enrollmentServiceImpl) GetProfile(ctx context.Context, userID, email string) (*model.User, error) {
	user, err := s.userRepo.Ensure(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return user, nil
}

func (s *enrollmentServiceImpl) UpdateProfile(ctx context.Context, userID, email string, req *dto.ProfileRequest) (*model.User, error) {
	values, err := wizard.Validate(s.profileSteps, map[string]string{
		"first_name":  req.FirstName,
		"last_name":   req.LastName,
		"email":       req.Email,
		"phone":       req.Phone,
		"national_id": req.NationalID,
		"address":     req.Address,
		"city":        req.City,
		"company_id":  req.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Ensure(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	user.FirstName = values["first_name"]
	user.LastName = values["last_name"]
	user.Email = values["email"]
	user.Phone = values["phone"]
	user.NationalID = values["national_id"]
	user.Address = values["address"]
	user.City = values["city"]
	user.CompanyID = values["company_id"]

	if err := s.userRepo.UpdateProfile(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.userRepo.Get(ctx, userID)
}
