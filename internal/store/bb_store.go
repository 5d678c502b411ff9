package store

import (
	"context"
	"errors"
	"strings"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

type BbStore struct{ db *gorm.DB }

func (s *Store) Bbs() *BbStore { return &BbStore{db: s.DB} }

func (b *BbStore) Create(ctx context.Context, bb *domain.Bb) error {
	return b.db.WithContext(ctx).Create(bb).Error
}

func (b *BbStore) GetByID(ctx context.Context, id uint) (*domain.Bb, error) {
	var bb domain.Bb
	err := b.db.WithContext(ctx).
		Preload("Rubric").
		Preload("Rubric.Parent").
		First(&bb, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &bb, nil
}

// ListActive is the public feed: active listings, newest first.
func (b *BbStore) ListActive(ctx context.Context, limit, offset int) ([]domain.Bb, error) {
	var out []domain.Bb
	q := b.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListActiveByRubric narrows the feed to one sub-rubric, with an optional
// case-insensitive keyword match over title and content.
func (b *BbStore) ListActiveByRubric(ctx context.Context, rubricID uint, keyword string, limit, offset int) ([]domain.Bb, error) {
	var out []domain.Bb
	q := b.db.WithContext(ctx).
		Where("is_active = ? AND rubric_id = ?", true, rubricID).
		Order("created_at DESC, id DESC")
	if keyword != "" {
		pat := "%" + strings.ToLower(keyword) + "%"
		q = q.Where("lower(title) LIKE ? OR lower(content) LIKE ?", pat, pat)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&out).Error
	return out, err
}

func (b *BbStore) ListByAuthor(ctx context.Context, authorID domain.UserID) ([]domain.Bb, error) {
	var out []domain.Bb
	err := b.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (b *BbStore) CountByRubric(ctx context.Context, rubricID uint) (int64, error) {
	var total int64
	err := b.db.WithContext(ctx).Model(&domain.Bb{}).
		Where("rubric_id = ?", rubricID).
		Count(&total).Error
	return total, err
}

// Update writes the mutable columns. CreatedAt is deliberately absent.
func (b *BbStore) Update(ctx context.Context, bb *domain.Bb) error {
	return b.db.WithContext(ctx).Model(&domain.Bb{}).
		Where("id = ?", bb.ID).
		Updates(map[string]any{
			"rubric_id": bb.RubricID,
			"title":     bb.Title,
			"content":   bb.Content,
			"price":     bb.Price,
			"contacts":  bb.Contacts,
			"image":     bb.Image,
			"is_active": bb.IsActive,
		}).Error
}

func (b *BbStore) Delete(ctx context.Context, id uint) error {
	res := b.db.WithContext(ctx).Delete(&domain.Bb{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
