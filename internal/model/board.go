package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultBackground is the colour given to boards created without one.
const DefaultBackground = "#2D4059"

// List is a column of a board. Lists have no identity outside their board.
type List struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

type Board struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string                         `gorm:"not null" json:"title"`
	Description string                         `json:"description"`
	OwnerID     uuid.UUID                      `gorm:"type:uuid;not null;index" json:"owner"`
	Members     datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null" json:"members"`
	Lists       datatypes.JSONSlice[List]      `gorm:"type:jsonb;not null" json:"lists"`
	Background  string                         `gorm:"not null" json:"background"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

// DefaultLists returns the lists every new board starts with.
func DefaultLists() []List {
	return []List{
		{ID: uuid.New(), Title: "To Do", Position: 0},
		{ID: uuid.New(), Title: "In Progress", Position: 1},
		{ID: uuid.New(), Title: "Done", Position: 2},
	}
}

func (b *Board) IsOwner(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

func (b *Board) IsMember(userID uuid.UUID) bool {
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// FindList returns the index of the list with the given id, or -1.
func (b *Board) FindList(listID uuid.UUID) int {
	for i := range b.Lists {
		if b.Lists[i].ID == listID {
			return i
		}
	}
	return -1
}
