// Package ordering keeps sibling positions contiguous and zero-based.
//
// Every renumbering is expressed as a Shift: the siblings whose position lies in
// [Lo, Hi] move by Delta. Lists apply shifts in memory on the board document,
// tasks hand them to the store as a single set-based update.
package ordering

import "errors"

var (
	ErrListNotFound       = errors.New("list not found")
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Unbounded marks a Shift without an upper bound.
const Unbounded = -1

type Shift struct {
	Lo    int
	Hi    int
	Delta int
}

func (s Shift) Contains(pos int) bool {
	if pos < s.Lo {
		return false
	}
	return s.Hi == Unbounded || pos <= s.Hi
}

// Apply returns where a sibling at pos ends up.
func (s Shift) Apply(pos int) int {
	if s.Contains(pos) {
		return pos + s.Delta
	}
	return pos
}

// MoveShift returns the shift of the other siblings when one moves from -> to.
// The boolean is false when the move is a no-op.
func MoveShift(from, to int) (Shift, bool) {
	switch {
	case to > from:
		return Shift{Lo: from + 1, Hi: to, Delta: -1}, true
	case to < from:
		return Shift{Lo: to, Hi: from - 1, Delta: 1}, true
	}
	return Shift{}, false
}

// RemoveShift closes the gap left at removed.
func RemoveShift(removed int) Shift {
	return Shift{Lo: removed + 1, Hi: Unbounded, Delta: -1}
}

// InsertShift opens a slot at pos.
func InsertShift(pos int) Shift {
	return Shift{Lo: pos, Hi: Unbounded, Delta: 1}
}

// Next returns the position that appends after positions, 0 when empty.
func Next(positions []int) int {
	last := -1
	for _, p := range positions {
		if p > last {
			last = p
		}
	}
	return last + 1
}

// Contiguous reports whether positions are exactly {0..n-1}.
func Contiguous(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
