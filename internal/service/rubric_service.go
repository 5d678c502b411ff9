package service

import (
	"context"

	"bboard/internal/dto"
)

type RubricService interface {
	Create(ctx context.Context, r dto.RubricCreateRequest) (*dto.RubricResponse, error)
	ListTopLevel(ctx context.Context) ([]dto.RubricResponse, error)
	ListSub(ctx context.Context) ([]dto.RubricResponse, error)
	ListSubOf(ctx context.Context, parentID uint) ([]dto.RubricResponse, error)
	// Delete refuses with domain.ErrRubricInUse while listings or child
	// rubrics still reference the rubric.
	Delete(ctx context.Context, id uint) error
}
