package impl

import (
	"context"
	"errors"
	"strconv"

	"bboard/internal/domain"
	"bboard/internal/dto"
	"bboard/internal/store"

	"github.com/google/uuid"
)

// targetLookup reports whether the entity behind a (kind, id) pair exists.
type targetLookup func(ctx context.Context, st *store.Store, targetID string) (bool, error)

func lookupByUint(get func(ctx context.Context, st *store.Store, id uint) error) targetLookup {
	return func(ctx context.Context, st *store.Store, targetID string) (bool, error) {
		id, err := strconv.ParseUint(targetID, 10, 64)
		if err != nil {
			return false, nil
		}
		if err := get(ctx, st, uint(id)); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

// The dispatch table is the only place that knows how to reach a note's
// target. It exists for Resolve; Create deliberately never consults it.
var targetLookups = map[domain.TargetKind]targetLookup{
	domain.KindUser: func(ctx context.Context, st *store.Store, targetID string) (bool, error) {
		id, err := uuid.Parse(targetID)
		if err != nil {
			return false, nil
		}
		if _, err := st.Users().GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	},
	domain.KindRubric: lookupByUint(func(ctx context.Context, st *store.Store, id uint) error {
		_, err := st.Rubrics().GetByID(ctx, id)
		return err
	}),
	domain.KindBb: lookupByUint(func(ctx context.Context, st *store.Store, id uint) error {
		_, err := st.Bbs().GetByID(ctx, id)
		return err
	}),
	domain.KindAdditionalImage: lookupByUint(func(ctx context.Context, st *store.Store, id uint) error {
		_, err := st.Images().GetByID(ctx, id)
		return err
	}),
	domain.KindComment: lookupByUint(func(ctx context.Context, st *store.Store, id uint) error {
		_, err := st.Comments().GetByID(ctx, id)
		return err
	}),
}

type NoteServiceImpl struct {
	store *store.Store
}

func NewNoteService(st *store.Store) *NoteServiceImpl {
	return &NoteServiceImpl{store: st}
}

func (s *NoteServiceImpl) Create(ctx context.Context, r dto.NoteCreateRequest) (*dto.NoteResponse, error) {
	kind := domain.TargetKind(r.TargetKind)
	if !kind.Known() {
		return nil, domain.ErrUnknownKind
	}

	verr := domain.NewValidationError()
	if r.Content == "" {
		verr.Add("content", "required")
	}
	if r.TargetID == "" {
		verr.Add("targetId", "required")
	}
	if !verr.Empty() {
		return nil, verr
	}

	// No existence check on the target: the reference stays weak even when
	// the id points at nothing.
	note := &domain.Note{
		Content:    r.Content,
		TargetKind: kind,
		TargetID:   r.TargetID,
	}
	if err := s.store.Notes().Create(ctx, note); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *NoteServiceImpl) For(ctx context.Context, kind domain.TargetKind, targetID string) ([]dto.NoteResponse, error) {
	if !kind.Known() {
		return nil, domain.ErrUnknownKind
	}
	notes, err := s.store.Notes().ListByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, *toNoteResponse(&notes[i]))
	}
	return out, nil
}

// Resolve loads the note and asks the dispatch table whether its target is
// still there. A missing target is a normal answer, not an error.
func (s *NoteServiceImpl) Resolve(ctx context.Context, noteID uint) (bool, error) {
	note, err := s.store.Notes().GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, domain.ErrNotFound
		}
		return false, err
	}
	lookup, ok := targetLookups[note.TargetKind]
	if !ok {
		return false, domain.ErrUnknownKind
	}
	return lookup(ctx, s.store, note.TargetID)
}

func toNoteResponse(n *domain.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		ID:         n.ID,
		Content:    n.Content,
		TargetKind: string(n.TargetKind),
		TargetID:   n.TargetID,
	}
}
