package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

type RubricStore struct{ db *gorm.DB }

func (s *Store) Rubrics() *RubricStore { return &RubricStore{db: s.DB} }

func (r *RubricStore) Create(ctx context.Context, rub *domain.Rubric) error {
	return r.db.WithContext(ctx).Create(rub).Error
}

func (r *RubricStore) GetByID(ctx context.Context, id uint) (*domain.Rubric, error) {
	var rub domain.Rubric
	if err := r.db.WithContext(ctx).Preload("Parent").First(&rub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rub, nil
}

// ListTopLevel projects the rubrics with no parent, ordered for navigation.
func (r *RubricStore) ListTopLevel(ctx context.Context) ([]domain.Rubric, error) {
	var out []domain.Rubric
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("position, name").
		Find(&out).Error
	return out, err
}

// ListSub projects every sub-rubric, grouped under its parent's ordering.
func (r *RubricStore) ListSub(ctx context.Context) ([]domain.Rubric, error) {
	var out []domain.Rubric
	err := r.db.WithContext(ctx).
		Joins("JOIN rubrics parent ON parent.id = rubrics.parent_id").
		Where("rubrics.parent_id IS NOT NULL").
		Order("parent.position, parent.name, rubrics.position, rubrics.name").
		Preload("Parent").
		Find(&out).Error
	return out, err
}

func (r *RubricStore) ListSubOf(ctx context.Context, parentID uint) ([]domain.Rubric, error) {
	var out []domain.Rubric
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("position, name").
		Preload("Parent").
		Find(&out).Error
	return out, err
}

func (r *RubricStore) CountChildren(ctx context.Context, id uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Rubric{}).
		Where("parent_id = ?", id).
		Count(&total).Error
	return total, err
}

// Delete removes the row only; PROTECT checks happen in the service inside
// the same transaction.
func (r *RubricStore) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Rubric{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
