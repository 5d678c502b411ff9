package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

type NoteStore struct{ db *gorm.DB }

func (s *Store) Notes() *NoteStore { return &NoteStore{db: s.DB} }

// Create stores the note as-is. The target id is never checked against the
// target table; the reference is weak on purpose.
func (n *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	return n.db.WithContext(ctx).Create(note).Error
}

func (n *NoteStore) GetByID(ctx context.Context, id uint) (*domain.Note, error) {
	var note domain.Note
	if err := n.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (n *NoteStore) ListByTarget(ctx context.Context, kind domain.TargetKind, targetID string) ([]domain.Note, error) {
	var out []domain.Note
	err := n.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Order("id").
		Find(&out).Error
	return out, err
}
