package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetInBoard retrieves a task only if it belongs to the board
func (r *TaskRepository) GetInBoard(ctx context.Context, boardID, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ? AND board_id = ?", id, boardID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByBoard retrieves all tasks of a board ordered by position
func (r *TaskRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// MaxPosition returns the highest position in a list, or -1 when it is empty
func (r *TaskRepository) MaxPosition(ctx context.Context, boardID uuid.UUID, listID string) (int, error) {
	var maxPosition struct {
		Max int
	}
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("COALESCE(MAX(position), -1) as max").
		Where("board_id = ? AND list_id = ?", boardID, listID).
		Scan(&maxPosition).Error

	return maxPosition.Max, err
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(task).
		Where("id = ?", task.ID).
		Select("*").Omit("id", "created_at").
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ShiftPositions moves every task of the list whose position is in the shift's
// range by its delta, in one statement.
func (r *TaskRepository) ShiftPositions(ctx context.Context, boardID uuid.UUID, ls ordering.ListShift) error {
	return shiftPositions(r.db.WithContext(ctx), boardID, ls)
}

func shiftPositions(db *gorm.DB, boardID uuid.UUID, ls ordering.ListShift) error {
	q := db.Model(&model.Task{}).
		Where("board_id = ? AND list_id = ? AND position >= ?", boardID, ls.ListID, ls.Shift.Lo)
	if ls.Shift.Hi != ordering.Unbounded {
		q = q.Where("position <= ?", ls.Shift.Hi)
	}
	return q.Update("position", gorm.Expr("position + ?", ls.Shift.Delta)).Error
}

// SetPlacement overwrites list and position of a task of the board. It reports
// false when no task matched.
func (r *TaskRepository) SetPlacement(ctx context.Context, boardID, id uuid.UUID, listID string, position int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND board_id = ?", id, boardID).
		Updates(map[string]interface{}{"list_id": listID, "position": position})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Relocate applies the sibling shifts of a move and stores the task at its new
// list and position, all in one transaction.
func (r *TaskRepository) Relocate(ctx context.Context, task *model.Task, plan []ordering.ListShift) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ls := range plan {
			if err := shiftPositions(tx, task.BoardID, ls); err != nil {
				return err
			}
		}

		result := tx.Model(&model.Task{}).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{"list_id": task.ListID, "position": task.Position})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}
