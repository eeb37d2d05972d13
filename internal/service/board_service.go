package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

type CreateBoardInput struct {
	Title       string
	Description string
	Background  string
}

// UpdateBoardInput fields left empty keep their current value.
type UpdateBoardInput struct {
	Title       string
	Description string
	Background  string
}

type UpdateListInput struct {
	Title    *string
	Position *int
}

type BoardService struct {
	boards BoardStore
}

func NewBoardService(boards BoardStore) *BoardService {
	return &BoardService{boards: boards}
}

func (s *BoardService) load(ctx context.Context, boardID uuid.UUID) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return board, nil
}

func (s *BoardService) save(ctx context.Context, board *model.Board) error {
	if err := s.boards.Update(ctx, board); err != nil {
		return fmt.Errorf("save board %s: %w", board.ID, err)
	}
	board.Lists = ordering.SortedLists(board)
	return nil
}

// Create makes a board owned by the caller with the three default lists.
func (s *BoardService) Create(ctx context.Context, ownerID uuid.UUID, in CreateBoardInput) (*model.Board, error) {
	title := cleanText(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	background := cleanText(in.Background)
	if background == "" {
		background = model.DefaultBackground
	}

	board := &model.Board{
		ID:          uuid.New(),
		Title:       title,
		Description: cleanText(in.Description),
		OwnerID:     ownerID,
		Members:     []uuid.UUID{},
		Lists:       model.DefaultLists(),
		Background:  background,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	log.WithFields(log.Fields{"board_id": board.ID, "owner_id": ownerID}).Info("Board created")
	return board, nil
}

// List returns the boards the caller owns or belongs to, newest first.
func (s *BoardService) List(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	boards, err := s.boards.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	for i := range boards {
		boards[i].Lists = ordering.SortedLists(&boards[i])
	}
	return boards, nil
}

func (s *BoardService) Get(ctx context.Context, userID, boardID uuid.UUID) (*model.Board, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireRead(board, userID); err != nil {
		return nil, err
	}
	board.Lists = ordering.SortedLists(board)
	return board, nil
}

func (s *BoardService) Update(ctx context.Context, userID, boardID uuid.UUID, in UpdateBoardInput) (*model.Board, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireStructure(board, userID); err != nil {
		return nil, err
	}

	if title := cleanText(in.Title); title != "" {
		board.Title = title
	}
	if description := cleanText(in.Description); description != "" {
		board.Description = description
	}
	if background := cleanText(in.Background); background != "" {
		board.Background = background
	}

	if err := s.save(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the board only. Its tasks stay in the store.
func (s *BoardService) Delete(ctx context.Context, userID, boardID uuid.UUID) error {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return err
	}
	if err := access.RequireStructure(board, userID); err != nil {
		return err
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return fmt.Errorf("delete board %s: %w", boardID, err)
	}

	log.WithField("board_id", boardID).Info("Board deleted")
	return nil
}

func (s *BoardService) AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*model.Board, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireStructure(board, userID); err != nil {
		return nil, err
	}
	if board.IsMember(memberID) {
		return nil, ErrAlreadyMember
	}

	board.Members = append(board.Members, memberID)
	if err := s.save(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) AddList(ctx context.Context, userID, boardID uuid.UUID, title string) (model.List, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return model.List{}, err
	}
	if err := access.RequireContent(board, userID); err != nil {
		return model.List{}, err
	}

	title = cleanText(title)
	if title == "" {
		return model.List{}, ErrEmptyTitle
	}

	list := ordering.AppendList(board, title)
	if err := s.save(ctx, board); err != nil {
		return model.List{}, err
	}
	return list, nil
}

// UpdateList renames and/or moves a list. A move outside [0, N-1] is rejected
// before anything is written.
func (s *BoardService) UpdateList(ctx context.Context, userID, boardID, listID uuid.UUID, in UpdateListInput) (model.List, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return model.List{}, err
	}
	if err := access.RequireContent(board, userID); err != nil {
		return model.List{}, err
	}

	idx := board.FindList(listID)
	if idx < 0 {
		return model.List{}, ordering.ErrListNotFound
	}

	if in.Position != nil {
		if _, err := ordering.MoveList(board, listID, *in.Position); err != nil {
			return model.List{}, err
		}
	}
	if in.Title != nil {
		if title := cleanText(*in.Title); title != "" {
			board.Lists[idx].Title = title
		}
	}

	list := board.Lists[idx]
	if err := s.save(ctx, board); err != nil {
		return model.List{}, err
	}
	return list, nil
}

// DeleteList removes the list and closes the gap. Tasks that referenced the
// list are left untouched.
func (s *BoardService) DeleteList(ctx context.Context, userID, boardID, listID uuid.UUID) error {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return err
	}
	if err := access.RequireStructure(board, userID); err != nil {
		return err
	}
	if err := ordering.RemoveList(board, listID); err != nil {
		return err
	}
	return s.save(ctx, board)
}

// ReorderLists writes the given positions verbatim and returns the lists sorted.
func (s *BoardService) ReorderLists(ctx context.Context, userID, boardID uuid.UUID, entries []ordering.ListPosition) ([]model.List, error) {
	board, err := s.load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireContent(board, userID); err != nil {
		return nil, err
	}

	ordering.ReorderLists(board, entries)
	if err := s.save(ctx, board); err != nil {
		return nil, err
	}
	return board.Lists, nil
}
