package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

// DefaultReorderConcurrency ограничивает число одновременных записей при
// массовой перестановке задач.
const DefaultReorderConcurrency = 8

type CreateTaskInput struct {
	Title       string
	Description string
	ListID      string
	DueDate     *time.Time
	Labels      []model.Label
}

// UpdateTaskInput: nil означает "не менять".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Labels      *[]model.Label
	Completed   *bool
	ListID      *string
	Position    *int
}

// TaskPlacement is one entry of a bulk reorder request.
type TaskPlacement struct {
	ID       uuid.UUID
	ListID   string
	Position int
}

type TaskService struct {
	boards      BoardStore
	tasks       TaskStore
	concurrency int
}

func NewTaskService(boards BoardStore, tasks TaskStore, concurrency int) *TaskService {
	if concurrency <= 0 {
		concurrency = DefaultReorderConcurrency
	}
	return &TaskService{boards: boards, tasks: tasks, concurrency: concurrency}
}

// board загружает доску и проверяет права пользователя
func (s *TaskService) board(ctx context.Context, userID, boardID uuid.UUID, check func(*model.Board, uuid.UUID) error) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	if err := check(board, userID); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *TaskService) task(ctx context.Context, boardID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.GetInBoard(ctx, boardID, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	return task, nil
}

// Create добавляет задачу в конец списка
func (s *TaskService) Create(ctx context.Context, userID, boardID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireContent); err != nil {
		return nil, err
	}

	title := cleanText(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	// Определяем позицию для новой задачи
	last, err := s.tasks.MaxPosition(ctx, boardID, in.ListID)
	if err != nil {
		return nil, fmt.Errorf("max position of list %s: %w", in.ListID, err)
	}

	labels := cleanLabels(in.Labels)
	task := &model.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: cleanText(in.Description),
		BoardID:     boardID,
		ListID:      in.ListID,
		Position:    last + 1,
		DueDate:     in.DueDate,
		Labels:      labels,
		AssignedTo:  []uuid.UUID{},
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List возвращает все задачи доски, отсортированные по позиции
func (s *TaskService) List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireRead); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of board %s: %w", boardID, err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, boardID, taskID uuid.UUID) (*model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireRead); err != nil {
		return nil, err
	}
	return s.task(ctx, boardID, taskID)
}

// Update применяет переданные поля. listId и position записываются как есть,
// соседние задачи не перенумеровываются.
func (s *TaskService) Update(ctx context.Context, userID, boardID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireContent); err != nil {
		return nil, err
	}
	task, err := s.task(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if title := cleanText(*in.Title); title != "" {
			task.Title = title
		}
	}
	if in.Description != nil {
		task.Description = cleanText(*in.Description)
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.Labels != nil {
		task.Labels = cleanLabels(*in.Labels)
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.ListID != nil {
		task.ListID = *in.ListID
	}
	if in.Position != nil {
		task.Position = *in.Position
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task %s: %w", taskID, err)
	}
	return task, nil
}

// Delete удаляет задачу и сдвигает следующие за ней задачи того же списка
func (s *TaskService) Delete(ctx context.Context, userID, boardID, taskID uuid.UUID) error {
	if _, err := s.board(ctx, userID, boardID, access.RequireContent); err != nil {
		return err
	}
	task, err := s.task(ctx, boardID, taskID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task %s: %w", taskID, err)
	}

	shift := ordering.ListShift{ListID: task.ListID, Shift: ordering.RemoveShift(task.Position)}
	if err := s.tasks.ShiftPositions(ctx, boardID, shift); err != nil {
		return fmt.Errorf("renumber list %s: %w", task.ListID, err)
	}
	return nil
}

// Reorder записывает позиции, вычисленные клиентом. Записи независимы и
// выполняются параллельно; ошибка одной записи не останавливает остальные и
// ничего не откатывает. Возвращается первая ошибка.
// Задачи, не найденные на доске, пропускаются.
func (s *TaskService) Reorder(ctx context.Context, userID, boardID uuid.UUID, placements []TaskPlacement) ([]model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireContent); err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, p := range placements {
		p := p
		g.Go(func() error {
			matched, err := s.tasks.SetPlacement(ctx, boardID, p.ID, p.ListID, p.Position)
			if err != nil {
				return fmt.Errorf("place task %s: %w", p.ID, err)
			}
			if !matched {
				log.WithFields(log.Fields{"board_id": boardID, "task_id": p.ID}).Debug("Reorder skipped unknown task")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of board %s: %w", boardID, err)
	}
	return tasks, nil
}

// Move перемещает задачу между списками или изменяет её позицию. Позиция
// ограничивается диапазоном [0, M], где M - число задач целевого списка без
// перемещаемой. Оба списка остаются непрерывными.
func (s *TaskService) Move(ctx context.Context, userID, boardID, taskID uuid.UUID, listID string, position int) (*model.Task, error) {
	if _, err := s.board(ctx, userID, boardID, access.RequireContent); err != nil {
		return nil, err
	}
	task, err := s.task(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	last, err := s.tasks.MaxPosition(ctx, boardID, listID)
	if err != nil {
		return nil, fmt.Errorf("max position of list %s: %w", listID, err)
	}
	limit := last + 1
	if listID == task.ListID {
		limit = last
	}
	target := ordering.ClampTarget(position, limit)

	plan := ordering.PlanTaskMove(task.ListID, task.Position, listID, target)
	if plan == nil {
		return task, nil
	}

	task.ListID = listID
	task.Position = target
	if err := s.tasks.Relocate(ctx, task, plan); err != nil {
		return nil, fmt.Errorf("move task %s: %w", taskID, err)
	}
	return task, nil
}

// Assign назначает участника доски на задачу. Повторное назначение ничего не
// меняет.
func (s *TaskService) Assign(ctx context.Context, userID, boardID, taskID, assignee uuid.UUID) (*model.Task, error) {
	board, err := s.board(ctx, userID, boardID, access.RequireContent)
	if err != nil {
		return nil, err
	}
	task, err := s.task(ctx, boardID, taskID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(assignee) && !board.IsMember(assignee) {
		return nil, ErrNotBoardMember
	}
	if task.IsAssigned(assignee) {
		return task, nil
	}

	task.AssignedTo = append(task.AssignedTo, assignee)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("assign task %s: %w", taskID, err)
	}
	return task, nil
}

func cleanLabels(labels []model.Label) []model.Label {
	out := make([]model.Label, 0, len(labels))
	seen := make(map[model.Label]bool, len(labels))
	for _, l := range labels {
		l.Name = cleanText(l.Name)
		l.Color = cleanText(l.Color)
		if l.Name == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
