package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/repository"
)

type memBoards struct {
	mu     sync.Mutex
	boards map[uuid.UUID]model.Board
}

func newMemBoards() *memBoards {
	return &memBoards{boards: make(map[uuid.UUID]model.Board)}
}

func cloneBoard(b model.Board) model.Board {
	b.Members = append([]uuid.UUID(nil), b.Members...)
	b.Lists = append([]model.List(nil), b.Lists...)
	return b
}

func (m *memBoards) Create(_ context.Context, board *model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	board.CreatedAt = time.Now()
	m.boards[board.ID] = cloneBoard(*board)
	return nil
}

func (m *memBoards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	if !ok {
		return nil, repository.ErrBoardNotFound
	}
	b = cloneBoard(b)
	return &b, nil
}

func (m *memBoards) ListForUser(_ context.Context, userID uuid.UUID) ([]model.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Board
	for _, b := range m.boards {
		if b.IsOwner(userID) || b.IsMember(userID) {
			out = append(out, cloneBoard(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBoards) Update(_ context.Context, board *model.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[board.ID]; !ok {
		return repository.ErrBoardNotFound
	}
	m.boards[board.ID] = cloneBoard(*board)
	return nil
}

func (m *memBoards) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return repository.ErrBoardNotFound
	}
	delete(m.boards, id)
	return nil
}

type memTasks struct {
	mu           sync.Mutex
	tasks        map[uuid.UUID]model.Task
	placementErr error
	failTask     map[uuid.UUID]error
}

func newMemTasks() *memTasks {
	return &memTasks{tasks: make(map[uuid.UUID]model.Task)}
}

func (m *memTasks) Create(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

func (m *memTasks) GetInBoard(_ context.Context, boardID, id uuid.UUID) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.BoardID != boardID {
		return nil, repository.ErrTaskNotFound
	}
	return &t, nil
}

func (m *memTasks) ListByBoard(_ context.Context, boardID uuid.UUID) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Task{}
	for _, t := range m.tasks {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (m *memTasks) MaxPosition(_ context.Context, boardID uuid.UUID, listID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last := -1
	for _, t := range m.tasks {
		if t.BoardID == boardID && t.ListID == listID && t.Position > last {
			last = t.Position
		}
	}
	return last, nil
}

func (m *memTasks) Update(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memTasks) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTasks) shift(boardID uuid.UUID, ls ordering.ListShift) {
	for id, t := range m.tasks {
		if t.BoardID == boardID && t.ListID == ls.ListID {
			t.Position = ls.Shift.Apply(t.Position)
			m.tasks[id] = t
		}
	}
}

func (m *memTasks) ShiftPositions(_ context.Context, boardID uuid.UUID, ls ordering.ListShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shift(boardID, ls)
	return nil
}

func (m *memTasks) SetPlacement(ctx context.Context, boardID, id uuid.UUID, listID string, position int) (bool, error) {
	// как настоящие драйверы, отмененный контекст не пишет
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placementErr != nil {
		return false, m.placementErr
	}
	if err := m.failTask[id]; err != nil {
		return false, err
	}
	t, ok := m.tasks[id]
	if !ok || t.BoardID != boardID {
		return false, nil
	}
	t.ListID = listID
	t.Position = position
	m.tasks[id] = t
	return true, nil
}

func (m *memTasks) Relocate(_ context.Context, task *model.Task, plan []ordering.ListShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ls := range plan {
		m.shift(task.BoardID, ls)
	}
	t, ok := m.tasks[task.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	t.ListID = task.ListID
	t.Position = task.Position
	m.tasks[task.ID] = t
	return nil
}

// positionsIn returns the positions of the list's tasks keyed by title.
func (m *memTasks) positionsIn(boardID uuid.UUID, listID string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, t := range m.tasks {
		if t.BoardID == boardID && t.ListID == listID {
			out[t.Title] = t.Position
		}
	}
	return out
}

func (m *memTasks) listTasks(boardID uuid.UUID, listID string) []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Task
	for _, t := range m.tasks {
		if t.BoardID == boardID && t.ListID == listID {
			out = append(out, t)
		}
	}
	return out
}
