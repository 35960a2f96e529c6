package repository

import (
	"context"
	"course-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	SentSince(ctx context.Context, userID string, courseID uint, kind model.NotificationKind, since time.Time) (bool, error)
}

type notificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepoImpl{
		db: db,
	}
}

func (r *notificationRepoImpl) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepoImpl) SentSince(ctx context.Context, userID string, courseID uint, kind model.NotificationKind, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND course_id = ? AND kind = ?", userID, courseID, kind).
		Where("status = ?", "sent").
		Where("sent_at >= ?", since).
		Count(&count).Error

	return count > 0, err
}
