package service

import (
	"context"

	"bboard/internal/domain"
	"bboard/internal/dto"
)

type NoteService interface {
	// Create never checks that the target exists; the reference is weak.
	Create(ctx context.Context, r dto.NoteCreateRequest) (*dto.NoteResponse, error)
	For(ctx context.Context, kind domain.TargetKind, targetID string) ([]dto.NoteResponse, error)
	// Resolve reports whether the note's target currently exists.
	Resolve(ctx context.Context, noteID uint) (bool, error)
}
