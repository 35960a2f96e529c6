package repository

import (
	"context"
	"course-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Get(ctx context.Context, userID string) (*model.User, error)
	// Ensure creates a bare user row for an authenticated subject on first
	// sight and returns the stored row.
	Ensure(ctx context.Context, userID, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, tx *gorm.DB, user *model.User) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Get(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) Ensure(ctx context.Context, userID, email string) (*model.User, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.User{
		ID:    userID,
		Email: email,
	}).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userID)
}

func (r *userRepoImpl) UpdateProfile(ctx context.Context, tx *gorm.DB, user *model.User) error {
	result := tx.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"email":       user.Email,
			"phone":       user.Phone,
			"national_id": user.NationalID,
			"address":     user.Address,
			"city":        user.City,
			"company_id":  user.CompanyID,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
