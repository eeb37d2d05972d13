package ordering

import (
	"sort"

	"github.com/google/uuid"

	"taskboard/internal/model"
)

// ListPosition is one entry of a bulk reorder request.
type ListPosition struct {
	ID       uuid.UUID
	Position int
}

func listPositions(b *model.Board) []int {
	positions := make([]int, len(b.Lists))
	for i, l := range b.Lists {
		positions[i] = l.Position
	}
	return positions
}

// AppendList adds a list after the current last one.
func AppendList(b *model.Board, title string) model.List {
	list := model.List{
		ID:       uuid.New(),
		Title:    title,
		Position: Next(listPositions(b)),
	}
	b.Lists = append(b.Lists, list)
	return list
}

// MoveList places the list at target and shifts the lists it passes over by
// one slot toward the vacated position.
func MoveList(b *model.Board, listID uuid.UUID, target int) (model.List, error) {
	idx := b.FindList(listID)
	if idx < 0 {
		return model.List{}, ErrListNotFound
	}
	if target < 0 || target >= len(b.Lists) {
		return model.List{}, ErrPositionOutOfRange
	}

	shift, ok := MoveShift(b.Lists[idx].Position, target)
	if !ok {
		return b.Lists[idx], nil
	}
	for i := range b.Lists {
		if i != idx {
			b.Lists[i].Position = shift.Apply(b.Lists[i].Position)
		}
	}
	b.Lists[idx].Position = target
	return b.Lists[idx], nil
}

func RemoveList(b *model.Board, listID uuid.UUID) error {
	idx := b.FindList(listID)
	if idx < 0 {
		return ErrListNotFound
	}

	shift := RemoveShift(b.Lists[idx].Position)
	b.Lists = append(b.Lists[:idx], b.Lists[idx+1:]...)
	for i := range b.Lists {
		b.Lists[i].Position = shift.Apply(b.Lists[i].Position)
	}
	return nil
}

// ReorderLists writes the requested positions as given. Unknown ids are
// skipped and the result is not checked for gaps or duplicates.
func ReorderLists(b *model.Board, entries []ListPosition) {
	for _, e := range entries {
		if idx := b.FindList(e.ID); idx >= 0 {
			b.Lists[idx].Position = e.Position
		}
	}
}

// SortedLists returns a copy of the board's lists ordered by position.
func SortedLists(b *model.Board) []model.List {
	lists := make([]model.List, len(b.Lists))
	copy(lists, b.Lists)
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].Position < lists[j].Position
	})
	return lists
}

// ListsContiguous reports whether the board's list positions are {0..N-1}.
func ListsContiguous(b *model.Board) bool {
	return Contiguous(listPositions(b))
}
