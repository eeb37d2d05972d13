// Package service holds the board and task operations. Every operation loads
// the board, checks the caller against it and then runs the ordering engine.
package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

// BoardStore is implemented by repository.BoardRepository and
// mongorepo.BoardRepository.
type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskStore is implemented by repository.TaskRepository and
// mongorepo.TaskRepository.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetInBoard(ctx context.Context, boardID, id uuid.UUID) (*model.Task, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Task, error)
	MaxPosition(ctx context.Context, boardID uuid.UUID, listID string) (int, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	ShiftPositions(ctx context.Context, boardID uuid.UUID, ls ordering.ListShift) error
	SetPlacement(ctx context.Context, boardID, id uuid.UUID, listID string, position int) (bool, error)
	Relocate(ctx context.Context, task *model.Task, plan []ordering.ListShift) error
}
