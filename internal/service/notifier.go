package service

import (
	"context"

	"bboard/internal/domain"
)

// Notifier delivers the activation link to a freshly registered user.
// Registration does not fail when delivery does.
type Notifier interface {
	NotifyRegistered(ctx context.Context, user *domain.User, activationURL string) error
}
