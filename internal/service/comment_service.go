package service

import (
	"context"

	"bboard/internal/dto"
)

type CommentService interface {
	Submit(ctx context.Context, bbID uint, r dto.CommentCreateRequest) (*dto.CommentResponse, error)
	ListForBb(ctx context.Context, bbID uint) ([]dto.CommentResponse, error)
	SetActive(ctx context.Context, commentID uint, active bool) error
}
