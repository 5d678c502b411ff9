package service

import (
	"context"

	"bboard/internal/domain"
	"bboard/internal/dto"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (*dto.TokenResponse, error)
	// Verify parses an access token and returns the subject user id.
	Verify(ctx context.Context, token string) (domain.UserID, error)
}
