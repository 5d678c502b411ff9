package service

import (
	"context"
	"io"

	"bboard/internal/domain"
	"bboard/internal/dto"
)

type BbService interface {
	Create(ctx context.Context, authorID domain.UserID, r dto.BbCreateRequest) (*dto.BbDetail, error)
	Update(ctx context.Context, actorID domain.UserID, bbID uint, r dto.BbUpdateRequest) (*dto.BbDetail, error)
	// Delete removes the listing, its additional images and comments in one
	// transaction, then releases the backing files best-effort.
	Delete(ctx context.Context, actorID domain.UserID, bbID uint) error

	Detail(ctx context.Context, bbID uint) (*dto.BbDetail, error)
	Feed(ctx context.Context, limit, offset int) ([]dto.BbSummary, error)
	FeedByRubric(ctx context.Context, rubricID uint, keyword string, limit, offset int) ([]dto.BbSummary, error)

	AttachImage(ctx context.Context, actorID domain.UserID, bbID uint, filename, contentType string, body io.Reader, size int64) (*dto.ImageResponse, error)
	DeleteImage(ctx context.Context, actorID domain.UserID, imageID uint) error
}
