package impl

import (
	"context"
	"errors"
	"log/slog"

	"bboard/internal/domain"
	"bboard/internal/dto"
	"bboard/internal/store"
)

type RubricServiceImpl struct {
	store *store.Store
}

func NewRubricService(st *store.Store) *RubricServiceImpl {
	return &RubricServiceImpl{store: st}
}

func (s *RubricServiceImpl) Create(ctx context.Context, r dto.RubricCreateRequest) (*dto.RubricResponse, error) {
	verr := domain.NewValidationError()
	if r.Name == "" {
		verr.Add("name", "required")
	}
	if !verr.Empty() {
		return nil, verr
	}

	var rub *domain.Rubric
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if r.ParentID != nil {
			parent, err := tx.Rubrics().GetByID(ctx, *r.ParentID)
			if err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					verr.Add("parentId", "unknown rubric")
					return verr
				}
				return err
			}
			// The tree is two levels deep, full stop.
			if !parent.IsTopLevel() {
				verr.Add("parentId", "parent must be a top-level rubric")
				return verr
			}
		}
		rub = &domain.Rubric{
			Name:     r.Name,
			Order:    r.Order,
			ParentID: r.ParentID,
		}
		return tx.Rubrics().Create(ctx, rub)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.store.Rubrics().GetByID(ctx, rub.ID)
	if err != nil {
		return nil, err
	}
	resp := toRubricResponse(*created)
	return &resp, nil
}

func (s *RubricServiceImpl) ListTopLevel(ctx context.Context) ([]dto.RubricResponse, error) {
	rubrics, err := s.store.Rubrics().ListTopLevel(ctx)
	if err != nil {
		return nil, err
	}
	return toRubricResponses(rubrics), nil
}

func (s *RubricServiceImpl) ListSub(ctx context.Context) ([]dto.RubricResponse, error) {
	rubrics, err := s.store.Rubrics().ListSub(ctx)
	if err != nil {
		return nil, err
	}
	return toRubricResponses(rubrics), nil
}

func (s *RubricServiceImpl) ListSubOf(ctx context.Context, parentID uint) ([]dto.RubricResponse, error) {
	if _, err := s.store.Rubrics().GetByID(ctx, parentID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rubrics, err := s.store.Rubrics().ListSubOf(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return toRubricResponses(rubrics), nil
}

// Delete enforces PROTECT semantics: the rubric stays while any listing or
// child rubric still points at it.
func (s *RubricServiceImpl) Delete(ctx context.Context, id uint) error {
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Rubrics().GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		refs, err := tx.Bbs().CountByRubric(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrRubricInUse
		}

		children, err := tx.Rubrics().CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return domain.ErrRubricInUse
		}

		return tx.Rubrics().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	slog.Info("rubric deleted", "rubric_id", id)
	return nil
}

func toRubricResponse(r domain.Rubric) dto.RubricResponse {
	return dto.RubricResponse{
		ID:       r.ID,
		Name:     r.Name,
		Order:    r.Order,
		ParentID: r.ParentID,
		Chain:    r.Chain(),
	}
}

func toRubricResponses(rubrics []domain.Rubric) []dto.RubricResponse {
	out := make([]dto.RubricResponse, 0, len(rubrics))
	for _, r := range rubrics {
		out = append(out, toRubricResponse(r))
	}
	return out
}
