package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task belongs to a board and references one of its lists by id. The list id
// is not checked against the board.
type Task struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                         `gorm:"not null" json:"title"`
	Description string                         `json:"description"`
	BoardID     uuid.UUID                      `gorm:"type:uuid;not null;index;index:idx_tasks_board_list_position,priority:1" json:"boardId"`
	ListID      string                         `gorm:"not null;index:idx_tasks_board_list_position,priority:2" json:"listId"`
	Position    int                            `gorm:"not null;index:idx_tasks_board_list_position,priority:3" json:"position"`
	DueDate     *time.Time                     `json:"dueDate,omitempty"`
	Labels      datatypes.JSONSlice[Label]     `gorm:"type:jsonb;not null" json:"labels"`
	AssignedTo  datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null" json:"assignedTo"`
	Completed   bool                           `gorm:"not null" json:"completed"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

func (t *Task) IsAssigned(userID uuid.UUID) bool {
	for _, a := range t.AssignedTo {
		if a == userID {
			return true
		}
	}
	return false
}
