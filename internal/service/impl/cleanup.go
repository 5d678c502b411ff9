package impl

import (
	"context"
	"log/slog"

	"bboard/internal/observability/metrics"
	"bboard/internal/service"
)

// cleanupBlobs releases backing files after the owning rows are gone. It
// runs after the transaction committed; a failed delete is logged and
// counted but never reported to the caller.
func cleanupBlobs(ctx context.Context, blobs service.BlobStore, keys []string) {
	if blobs == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := blobs.Delete(ctx, key); err != nil {
			metrics.CleanupFailuresTotal.WithLabelValues().Inc()
			slog.Warn("blob cleanup failed", "key", key, "error", err)
		}
	}
}
