package repository

import (
	"context"
	"course-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository interface {
	List(ctx context.Context, onlyAvailable bool) ([]*model.Course, error)
	FindByID(ctx context.Context, courseID uint) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	// Update replaces the course columns and its whole lesson list.
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, courseID uint) error
}

type courseRepoImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepoImpl{
		db: db,
	}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *courseRepoImpl) List(ctx context.Context, onlyAvailable bool) ([]*model.Course, error) {
	var courses []*model.Course

	q := r.db.WithContext(ctx).Preload("Lessons", orderedLessons)
	if onlyAvailable {
		q = q.Where("available = ?", true)
	}

	if err := q.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepoImpl) FindByID(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", orderedLessons).
		Where("id = ?", courseID).
		First(&course).Error

	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepoImpl) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepoImpl) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Course{}).
			Where("id = ?", course.ID).
			Updates(map[string]interface{}{
				"title":               course.Title,
				"description":         course.Description,
				"price":               course.Price,
				"discount_price":      course.DiscountPrice,
				"discount_percentage": course.DiscountPercentage,
				"duration_minutes":    course.DurationMinutes,
				"available":           course.Available,
				"updated_at":          time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("course_id = ?", course.ID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}

		for i := range course.Lessons {
			course.Lessons[i].ID = 0
			course.Lessons[i].CourseID = course.ID
		}
		if len(course.Lessons) > 0 {
			if err := tx.Create(&course.Lessons).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *courseRepoImpl) Delete(ctx context.Context, courseID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", courseID).Delete(&model.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
