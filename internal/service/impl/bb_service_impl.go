package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"
	"unicode/utf8"

	"bboard/internal/domain"
	"bboard/internal/dto"
	"bboard/internal/objstore"
	"bboard/internal/observability/metrics"
	"bboard/internal/service"
	"bboard/internal/store"
)

type BbServiceImpl struct {
	store   *store.Store
	blobs   service.BlobStore
	titleRe *regexp.Regexp
}

// NewBbService compiles the configured title pattern once. The empty
// pattern matches every title, which is the historical default.
func NewBbService(st *store.Store, blobs service.BlobStore, titlePattern string) (*BbServiceImpl, error) {
	re, err := regexp.Compile(titlePattern)
	if err != nil {
		return nil, fmt.Errorf("compile title pattern: %w", err)
	}
	return &BbServiceImpl{store: st, blobs: blobs, titleRe: re}, nil
}

func (s *BbServiceImpl) validateTitle(verr *domain.ValidationError, title string) {
	switch {
	case title == "":
		verr.Add("title", "required")
	case utf8.RuneCountInString(title) > domain.MaxTitleLen:
		verr.Add("title", fmt.Sprintf("must be at most %d characters", domain.MaxTitleLen))
	case !s.titleRe.MatchString(title):
		verr.Add("title", "does not match the required pattern")
	}
}

// requireSubRubric checks that the rubric exists and sits on the second
// level of the tree.
func requireSubRubric(ctx context.Context, tx *store.Store, verr *domain.ValidationError, rubricID uint) error {
	rub, err := tx.Rubrics().GetByID(ctx, rubricID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			verr.Add("rubricId", "unknown rubric")
			return verr
		}
		return err
	}
	if rub.IsTopLevel() {
		verr.Add("rubricId", "must be a sub-rubric")
		return verr
	}
	return nil
}

func (s *BbServiceImpl) Create(ctx context.Context, authorID domain.UserID, r dto.BbCreateRequest) (*dto.BbDetail, error) {
	result := "success"
	defer func() {
		metrics.BbsTotal.WithLabelValues("create", result).Inc()
	}()

	verr := domain.NewValidationError()
	s.validateTitle(verr, r.Title)
	if !verr.Empty() {
		result = "failure"
		return nil, verr
	}

	var bb *domain.Bb
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := requireSubRubric(ctx, tx, verr, r.RubricID); err != nil {
			return err
		}
		// Price and contacts are accepted as submitted, zero and negative
		// prices included.
		bb = &domain.Bb{
			RubricID:  r.RubricID,
			Title:     r.Title,
			Content:   r.Content,
			Price:     r.Price,
			Contacts:  r.Contacts,
			AuthorID:  authorID,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		return tx.Bbs().Create(ctx, bb)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("bb created", "bb_id", bb.ID, "rubric_id", bb.RubricID, "author_id", authorID)
	return s.Detail(ctx, bb.ID)
}

func (s *BbServiceImpl) Update(ctx context.Context, actorID domain.UserID, bbID uint, r dto.BbUpdateRequest) (*dto.BbDetail, error) {
	result := "success"
	defer func() {
		metrics.BbsTotal.WithLabelValues("update", result).Inc()
	}()

	verr := domain.NewValidationError()
	s.validateTitle(verr, r.Title)
	if !verr.Empty() {
		result = "failure"
		return nil, verr
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		bb, err := tx.Bbs().GetByID(ctx, bbID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if bb.AuthorID != actorID {
			return domain.ErrNotOwner
		}
		if err := requireSubRubric(ctx, tx, verr, r.RubricID); err != nil {
			return err
		}

		bb.RubricID = r.RubricID
		bb.Title = r.Title
		bb.Content = r.Content
		bb.Price = r.Price
		bb.Contacts = r.Contacts
		if r.IsActive != nil {
			bb.IsActive = *r.IsActive
		}
		return tx.Bbs().Update(ctx, bb)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}
	return s.Detail(ctx, bbID)
}

// Delete removes the additional images first, then the comments, then the
// listing itself, all in one transaction. Backing files are released only
// after the transaction committed.
func (s *BbServiceImpl) Delete(ctx context.Context, actorID domain.UserID, bbID uint) error {
	result := "success"
	defer func() {
		metrics.BbsTotal.WithLabelValues("delete", result).Inc()
	}()

	var blobKeys []string
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		bb, err := tx.Bbs().GetByID(ctx, bbID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if bb.AuthorID != actorID {
			return domain.ErrNotOwner
		}

		images, err := tx.Images().ListByBb(ctx, bbID)
		if err != nil {
			return err
		}
		for _, img := range images {
			blobKeys = append(blobKeys, img.Image)
		}
		if bb.Image != "" {
			blobKeys = append(blobKeys, bb.Image)
		}

		if err := tx.Images().DeleteByBb(ctx, bbID); err != nil {
			return err
		}
		if err := tx.Comments().DeleteByBb(ctx, bbID); err != nil {
			return err
		}
		return tx.Bbs().Delete(ctx, bbID)
	})
	if err != nil {
		result = "failure"
		return err
	}

	cleanupBlobs(ctx, s.blobs, blobKeys)
	slog.Info("bb deleted", "bb_id", bbID, "blobs", len(blobKeys))
	return nil
}

// Detail resolves a listing by id regardless of its visibility flag.
func (s *BbServiceImpl) Detail(ctx context.Context, bbID uint) (*dto.BbDetail, error) {
	bb, err := s.store.Bbs().GetByID(ctx, bbID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	images, err := s.store.Images().ListByBb(ctx, bbID)
	if err != nil {
		return nil, err
	}

	detail := &dto.BbDetail{
		ID:        bb.ID,
		Title:     bb.Title,
		Content:   bb.Content,
		Price:     bb.Price,
		Contacts:  bb.Contacts,
		Image:     bb.Image,
		RubricID:  bb.RubricID,
		IsActive:  bb.IsActive,
		CreatedAt: bb.CreatedAt,
	}
	if bb.Rubric != nil {
		detail.Rubric = bb.Rubric.Chain()
	}
	for _, img := range images {
		detail.AdditionalImages = append(detail.AdditionalImages, dto.ImageResponse{
			ID:    img.ID,
			BbID:  img.BbID,
			Image: img.Image,
		})
	}
	return detail, nil
}

func (s *BbServiceImpl) Feed(ctx context.Context, limit, offset int) ([]dto.BbSummary, error) {
	bbs, err := s.store.Bbs().ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toSummaries(bbs), nil
}

func (s *BbServiceImpl) FeedByRubric(ctx context.Context, rubricID uint, keyword string, limit, offset int) ([]dto.BbSummary, error) {
	rub, err := s.store.Rubrics().GetByID(ctx, rubricID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	// Listings hang off sub-rubrics only; a top-level id is not a feed.
	if rub.IsTopLevel() {
		return nil, domain.ErrNotFound
	}
	bbs, err := s.store.Bbs().ListActiveByRubric(ctx, rubricID, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	return toSummaries(bbs), nil
}

func (s *BbServiceImpl) AttachImage(ctx context.Context, actorID domain.UserID, bbID uint, filename, contentType string, body io.Reader, size int64) (*dto.ImageResponse, error) {
	bb, err := s.store.Bbs().GetByID(ctx, bbID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if bb.AuthorID != actorID {
		return nil, domain.ErrNotOwner
	}

	key := objstore.TimestampKey(time.Now(), filename)
	if err := s.blobs.Upload(ctx, key, body, size, contentType); err != nil {
		return nil, err
	}

	img := &domain.AdditionalImage{BbID: bbID, Image: key}
	if err := s.store.Images().Create(ctx, img); err != nil {
		// The row never landed; drop the freshly written blob.
		cleanupBlobs(ctx, s.blobs, []string{key})
		return nil, err
	}

	slog.Info("image attached", "bb_id", bbID, "image_id", img.ID, "key", key)
	return &dto.ImageResponse{ID: img.ID, BbID: img.BbID, Image: img.Image}, nil
}

func (s *BbServiceImpl) DeleteImage(ctx context.Context, actorID domain.UserID, imageID uint) error {
	var blobKey string
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		img, err := tx.Images().GetByID(ctx, imageID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		bb, err := tx.Bbs().GetByID(ctx, img.BbID)
		if err != nil {
			return err
		}
		if bb.AuthorID != actorID {
			return domain.ErrNotOwner
		}
		blobKey = img.Image
		return tx.Images().Delete(ctx, imageID)
	})
	if err != nil {
		return err
	}

	cleanupBlobs(ctx, s.blobs, []string{blobKey})
	return nil
}

func toSummaries(bbs []domain.Bb) []dto.BbSummary {
	out := make([]dto.BbSummary, 0, len(bbs))
	for _, bb := range bbs {
		out = append(out, dto.BbSummary{
			ID:        bb.ID,
			Title:     bb.Title,
			Content:   bb.Content,
			Price:     bb.Price,
			CreatedAt: bb.CreatedAt,
		})
	}
	return out
}
