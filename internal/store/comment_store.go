package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

type CommentStore struct{ db *gorm.DB }

func (s *Store) Comments() *CommentStore { return &CommentStore{db: s.DB} }

func (c *CommentStore) Create(ctx context.Context, cm *domain.Comment) error {
	return c.db.WithContext(ctx).Create(cm).Error
}

func (c *CommentStore) GetByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var cm domain.Comment
	if err := c.db.WithContext(ctx).First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// ListActiveByBb returns visible comments for a listing, newest first.
func (c *CommentStore) ListActiveByBb(ctx context.Context, bbID uint) ([]domain.Comment, error) {
	var out []domain.Comment
	err := c.db.WithContext(ctx).
		Where("bb_id = ? AND is_active = ?", bbID, true).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (c *CommentStore) SetActive(ctx context.Context, id uint, active bool) error {
	res := c.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (c *CommentStore) DeleteByBb(ctx context.Context, bbID uint) error {
	return c.db.WithContext(ctx).Delete(&domain.Comment{}, "bb_id = ?", bbID).Error
}
