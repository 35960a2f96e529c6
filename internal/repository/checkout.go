package repository

import (
	"context"
	"course-marketplace/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrStaleTransition means the session was not in any of the expected states.
var ErrStaleTransition = errors.New("checkout session state changed concurrently")

type CheckoutRepository interface {
	Create(ctx context.Context, session *model.CheckoutSession) error
	Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
	Save(ctx context.Context, tx *gorm.DB, session *model.CheckoutSession) error
	Transition(ctx context.Context, tx *gorm.DB, sessionID string, from []model.CheckoutStatus, to model.CheckoutStatus) error
	ListExpired(ctx context.Context, now time.Time) ([]*model.CheckoutSession, error)
}

type checkoutRepoImpl struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepoImpl{
		db: db,
	}
}

func (r *checkoutRepoImpl) Create(ctx context.Context, session *model.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *checkoutRepoImpl) Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	var session model.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error

	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *checkoutRepoImpl) Save(ctx context.Context, tx *gorm.DB, session *model.CheckoutSession) error {
	return tx.WithContext(ctx).Save(session).Error
}

func (r *checkoutRepoImpl) Transition(ctx context.Context, tx *gorm.DB, sessionID string, from []model.CheckoutStatus, to model.CheckoutStatus) error {
	result := tx.WithContext(ctx).Model(&model.CheckoutSession{}).
		Where("id = ?", sessionID).
		Where("status IN ?", from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleTransition
	}

	return nil
}

func (r *checkoutRepoImpl) ListExpired(ctx context.Context, now time.Time) ([]*model.CheckoutSession, error) {
	var sessions []*model.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []model.CheckoutStatus{
			model.CheckoutInitiated,
			model.CheckoutFormCreated,
			model.CheckoutFailed,
		}).
		Where("expires_at < ?", now).
		Find(&sessions).Error

	if err != nil {
		return nil, err
	}

	return sessions, nil
}
