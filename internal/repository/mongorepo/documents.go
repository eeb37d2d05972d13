package mongorepo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

type listDoc struct {
	ID       string `bson:"id"`
	Title    string `bson:"title"`
	Position int    `bson:"position"`
}

type boardDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Owner       string    `bson:"owner"`
	Members     []string  `bson:"members"`
	Lists       []listDoc `bson:"lists"`
	Background  string    `bson:"background"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type labelDoc struct {
	Name  string `bson:"name"`
	Color string `bson:"color"`
}

type taskDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	BoardID     string     `bson:"boardId"`
	ListID      string     `bson:"listId"`
	Position    int        `bson:"position"`
	DueDate     *time.Time `bson:"dueDate,omitempty"`
	Labels      []labelDoc `bson:"labels"`
	AssignedTo  []string   `bson:"assignedTo"`
	Completed   bool       `bson:"completed"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func stringIDs(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func newBoardDoc(b *model.Board) boardDoc {
	lists := make([]listDoc, 0, len(b.Lists))
	for _, l := range b.Lists {
		lists = append(lists, listDoc{ID: l.ID.String(), Title: l.Title, Position: l.Position})
	}
	return boardDoc{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Owner:       b.OwnerID.String(),
		Members:     stringIDs(b.Members),
		Lists:       lists,
		Background:  b.Background,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (d boardDoc) toModel() (*model.Board, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("board id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("board %s owner: %w", d.ID, err)
	}
	members, err := parseIDs(d.Members)
	if err != nil {
		return nil, fmt.Errorf("board %s members: %w", d.ID, err)
	}

	lists := make([]model.List, 0, len(d.Lists))
	for _, l := range d.Lists {
		listID, err := uuid.Parse(l.ID)
		if err != nil {
			return nil, fmt.Errorf("board %s list %q: %w", d.ID, l.ID, err)
		}
		lists = append(lists, model.List{ID: listID, Title: l.Title, Position: l.Position})
	}

	return &model.Board{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		OwnerID:     owner,
		Members:     members,
		Lists:       lists,
		Background:  d.Background,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func newTaskDoc(t *model.Task) taskDoc {
	labels := make([]labelDoc, 0, len(t.Labels))
	for _, l := range t.Labels {
		labels = append(labels, labelDoc{Name: l.Name, Color: l.Color})
	}
	return taskDoc{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		BoardID:     t.BoardID.String(),
		ListID:      t.ListID,
		Position:    t.Position,
		DueDate:     t.DueDate,
		Labels:      labels,
		AssignedTo:  stringIDs(t.AssignedTo),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDoc) toModel() (*model.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("task id %q: %w", d.ID, err)
	}
	boardID, err := uuid.Parse(d.BoardID)
	if err != nil {
		return nil, fmt.Errorf("task %s board: %w", d.ID, err)
	}
	assigned, err := parseIDs(d.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("task %s assignees: %w", d.ID, err)
	}

	labels := make([]model.Label, 0, len(d.Labels))
	for _, l := range d.Labels {
		labels = append(labels, model.Label{Name: l.Name, Color: l.Color})
	}

	return &model.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		BoardID:     boardID,
		ListID:      d.ListID,
		Position:    d.Position,
		DueDate:     d.DueDate,
		Labels:      labels,
		AssignedTo:  assigned,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
