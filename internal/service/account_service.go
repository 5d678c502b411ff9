package service

import (
	"context"

	"bboard/internal/domain"
	"bboard/internal/dto"
)

type AccountService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	Activate(ctx context.Context, sign string) (*dto.ActivateResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.ProfileUpdateRequest) (*dto.ProfileResponse, error)
	// ChangePassword requires the current password; the new one is hashed
	// under current policy.
	ChangePassword(ctx context.Context, userID domain.UserID, r dto.PasswordChangeRequest) error
	// Delete removes the account and cascades to every owned listing.
	Delete(ctx context.Context, userID domain.UserID) error
}
