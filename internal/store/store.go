package store

import (
	"context"
	"errors"

	"bboard/internal/domain"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&domain.User{},
		&domain.Rubric{},
		&domain.Bb{},
		&domain.AdditionalImage{},
		&domain.Comment{},
		&domain.Note{},
	)
}
