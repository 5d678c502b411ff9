package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"bboard/internal/domain"
	"bboard/internal/dto"
	"bboard/internal/observability/metrics"
	"bboard/internal/store"
)

const maxCommentAuthorLen = 30

type CommentServiceImpl struct {
	store *store.Store
}

func NewCommentService(st *store.Store) *CommentServiceImpl {
	return &CommentServiceImpl{store: st}
}

func (s *CommentServiceImpl) Submit(ctx context.Context, bbID uint, r dto.CommentCreateRequest) (*dto.CommentResponse, error) {
	result := "success"
	defer func() {
		metrics.CommentsTotal.WithLabelValues(result).Inc()
	}()

	verr := domain.NewValidationError()
	if r.Author == "" {
		verr.Add("author", "required")
	} else if utf8.RuneCountInString(r.Author) > maxCommentAuthorLen {
		verr.Add("author", "too long")
	}
	if r.Content == "" {
		verr.Add("content", "required")
	}
	if !verr.Empty() {
		result = "failure"
		return nil, verr
	}

	var cm *domain.Comment
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Bbs().GetByID(ctx, bbID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		cm = &domain.Comment{
			BbID:      bbID,
			Author:    r.Author,
			Content:   r.Content,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Comments().Create(ctx, cm)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("comment submitted", "bb_id", bbID, "comment_id", cm.ID)
	return toCommentResponse(cm), nil
}

func (s *CommentServiceImpl) ListForBb(ctx context.Context, bbID uint) ([]dto.CommentResponse, error) {
	if _, err := s.store.Bbs().GetByID(ctx, bbID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	comments, err := s.store.Comments().ListActiveByBb(ctx, bbID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, *toCommentResponse(&comments[i]))
	}
	return out, nil
}

// SetActive toggles visibility without deleting anything; this is the whole
// moderation workflow.
func (s *CommentServiceImpl) SetActive(ctx context.Context, commentID uint, active bool) error {
	err := s.store.Comments().SetActive(ctx, commentID, active)
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func toCommentResponse(cm *domain.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        cm.ID,
		Bb:        cm.BbID,
		Author:    cm.Author,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
	}
}
