package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

type ImageStore struct{ db *gorm.DB }

func (s *Store) Images() *ImageStore { return &ImageStore{db: s.DB} }

func (i *ImageStore) Create(ctx context.Context, img *domain.AdditionalImage) error {
	return i.db.WithContext(ctx).Create(img).Error
}

func (i *ImageStore) GetByID(ctx context.Context, id uint) (*domain.AdditionalImage, error) {
	var img domain.AdditionalImage
	if err := i.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &img, nil
}

func (i *ImageStore) ListByBb(ctx context.Context, bbID uint) ([]domain.AdditionalImage, error) {
	var out []domain.AdditionalImage
	err := i.db.WithContext(ctx).
		Where("bb_id = ?", bbID).
		Order("id").
		Find(&out).Error
	return out, err
}

func (i *ImageStore) Delete(ctx context.Context, id uint) error {
	res := i.db.WithContext(ctx).Delete(&domain.AdditionalImage{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (i *ImageStore) DeleteByBb(ctx context.Context, bbID uint) error {
	return i.db.WithContext(ctx).Delete(&domain.AdditionalImage{}, "bb_id = ?", bbID).Error
}
