package impl

import (
	"context"
	"log/slog"

	"bboard/internal/domain"
)

// LogNotifier is the default notification backend: it writes the activation
// link to the service log. Deployments with a mail relay swap in their own
// service.Notifier at wiring time.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) NotifyRegistered(ctx context.Context, user *domain.User, activationURL string) error {
	slog.Info("registration notification",
		"user_id", user.ID,
		"username", user.Username,
		"activation_url", activationURL,
	)
	return nil
}
