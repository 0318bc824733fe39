package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/riddlebox/riddle-api/internal/models"
)

func (r *GormRepo) ListRiddles(ctx context.Context) ([]models.Riddle, error) {
	var riddles []models.Riddle
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&riddles).Error; err != nil {
		return nil, err
	}
	return riddles, nil
}

func (r *GormRepo) GetRiddle(ctx context.Context, id uint) (*models.Riddle, error) {
	var riddle models.Riddle
	if err := r.DB.WithContext(ctx).First(&riddle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRiddleNotFound
		}
		return nil, err
	}
	return &riddle, nil
}

func (r *GormRepo) CreateRiddle(ctx context.Context, riddle *models.Riddle) error {
	return r.DB.WithContext(ctx).Create(riddle).Error
}

func (r *GormRepo) SaveRiddle(ctx context.Context, riddle *models.Riddle) error {
	return r.DB.WithContext(ctx).Save(riddle).Error
}

func (r *GormRepo) DeleteRiddle(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Riddle{}, id).Error
}
