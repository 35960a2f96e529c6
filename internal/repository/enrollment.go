package repository

import (
	"context"
	"course-marketplace/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEnrollmentActive means the (user, course) row already grants access.
var ErrEnrollmentActive = errors.New("enrollment already active")

type EnrollmentRepository interface {
	// UpsertPending writes the (user, course) row in pending state, reusing
	// an existing row instead of adding a duplicate. An active row is left
	// untouched and ErrEnrollmentActive is returned.
	UpsertPending(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByUserAndCourse(ctx context.Context, userID string, courseID uint) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error)
	// Activate grants access. It returns ErrEnrollmentActive when access was
	// already granted.
	Activate(ctx context.Context, tx *gorm.DB, userID string, courseID uint) error
	ExpirePending(ctx context.Context, tx *gorm.DB, sessionIDs []string) (int64, error)
	UpdateProgress(ctx context.Context, userID string, courseID uint, currentLesson int) error
	// ListInactive returns unfinished active enrollments untouched since before.
	ListInactive(ctx context.Context, before time.Time) ([]*model.Enrollment, error)
}

type enrollmentRepoImpl struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepoImpl{
		db: db,
	}
}

func (r *enrollmentRepoImpl) UpsertPending(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	enrollment.Status = model.EnrollmentPending
	if enrollment.CurrentLesson < 1 {
		enrollment.CurrentLesson = 1
	}

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"current_lesson":      enrollment.CurrentLesson,
			"amount_paid":         enrollment.AmountPaid,
			"course_title":        enrollment.CourseTitle,
			"total_lessons":       enrollment.TotalLessons,
			"status":              model.EnrollmentPending,
			"checkout_session_id": enrollment.CheckoutSessionID,
			"updated_at":          time.Now(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: "enrollments.status", Value: model.EnrollmentActive},
		}},
	}).Create(enrollment)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEnrollmentActive
	}

	return nil
}

func (r *enrollmentRepoImpl) FindByUserAndCourse(ctx context.Context, userID string, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error

	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

func (r *enrollmentRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error

	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepoImpl) Activate(ctx context.Context, tx *gorm.DB, userID string, courseID uint) error {
	result := tx.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("status IN ?", []model.EnrollmentStatus{model.EnrollmentPending, model.EnrollmentExpired}).
		Updates(map[string]interface{}{
			"status":     model.EnrollmentActive,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var enrollment model.Enrollment
	err := tx.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return err
	}
	if enrollment.Status == model.EnrollmentActive {
		return ErrEnrollmentActive
	}

	return gorm.ErrRecordNotFound
}

func (r *enrollmentRepoImpl) ExpirePending(ctx context.Context, tx *gorm.DB, sessionIDs []string) (int64, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	result := tx.WithContext(ctx).Model(&model.Enrollment{}).
		Where("checkout_session_id IN ?", sessionIDs).
		Where("status = ?", model.EnrollmentPending).
		Updates(map[string]interface{}{
			"status":     model.EnrollmentExpired,
			"updated_at": time.Now(),
		})

	return result.RowsAffected, result.Error
}

func (r *enrollmentRepoImpl) UpdateProgress(ctx context.Context, userID string, courseID uint, currentLesson int) error {
	result := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Where("status = ?", model.EnrollmentActive).
		Updates(map[string]interface{}{
			"current_lesson": currentLesson,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *enrollmentRepoImpl) ListInactive(ctx context.Context, before time.Time) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := r.db.WithContext(ctx).
		Where("status = ?", model.EnrollmentActive).
		Where("current_lesson < total_lessons").
		Where("updated_at < ?", before).
		Find(&enrollments).Error

	if err != nil {
		return nil, err
	}

	return enrollments, nil
}
