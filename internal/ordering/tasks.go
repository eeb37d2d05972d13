package ordering

import "taskboard/internal/model"

// ListShift is a Shift applied to the tasks of one list.
type ListShift struct {
	ListID string
	Shift  Shift
}

// ClampTarget bounds a requested position to [0, limit].
func ClampTarget(target, limit int) int {
	if target < 0 {
		return 0
	}
	if target > limit {
		return limit
	}
	return target
}

// PlanTaskMove returns the shifts the siblings of a task need when it moves
// from position from in srcList to position to in dstList. The moved task
// itself must be excluded when the shifts are applied.
func PlanTaskMove(srcList string, from int, dstList string, to int) []ListShift {
	if srcList == dstList {
		shift, ok := MoveShift(from, to)
		if !ok {
			return nil
		}
		return []ListShift{{ListID: srcList, Shift: shift}}
	}
	return []ListShift{
		{ListID: srcList, Shift: RemoveShift(from)},
		{ListID: dstList, Shift: InsertShift(to)},
	}
}

// TasksContiguous reports whether every list's task positions are {0..M-1}.
func TasksContiguous(tasks []model.Task) bool {
	byList := make(map[string][]int)
	for _, t := range tasks {
		byList[t.ListID] = append(byList[t.ListID], t.Position)
	}
	for _, positions := range byList {
		if !Contiguous(positions) {
			return false
		}
	}
	return true
}
