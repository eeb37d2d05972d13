package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type taskFixture struct {
	svc    *service.TaskService
	boards *memBoards
	tasks  *memTasks
	board  *model.Board
	owner  uuid.UUID
	member uuid.UUID
}

func setupTasks(t *testing.T) *taskFixture {
	t.Helper()
	boards := newMemBoards()
	tasks := newMemTasks()
	boardSvc := service.NewBoardService(boards)
	owner, member := uuid.New(), uuid.New()

	board, err := boardSvc.Create(context.Background(), owner, service.CreateBoardInput{Title: "Sprint"})
	require.NoError(t, err)
	board, err = boardSvc.AddMember(context.Background(), owner, board.ID, member)
	require.NoError(t, err)

	return &taskFixture{
		svc:    service.NewTaskService(boards, tasks, 2),
		boards: boards,
		tasks:  tasks,
		board:  board,
		owner:  owner,
		member: member,
	}
}

func (f *taskFixture) create(t *testing.T, listID, title string) *model.Task {
	t.Helper()
	task, err := f.svc.Create(context.Background(), f.owner, f.board.ID, service.CreateTaskInput{Title: title, ListID: listID})
	require.NoError(t, err)
	return task
}

func TestTaskService_Create_AppendsPerList(t *testing.T) {
	f := setupTasks(t)

	first := f.create(t, "todo", "first")
	second := f.create(t, "todo", "second")
	other := f.create(t, "done", "other")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 0, other.Position)
	assert.Equal(t, f.board.ID, first.BoardID)
	assert.Empty(t, first.AssignedTo)
}

func TestTaskService_Create_MemberAllowed(t *testing.T) {
	f := setupTasks(t)

	task, err := f.svc.Create(context.Background(), f.member, f.board.ID, service.CreateTaskInput{
		Title:  "from member",
		ListID: "todo",
		Labels: []model.Label{{Name: "bug", Color: "red"}, {Name: "bug", Color: "red"}, {Name: "<i></i>"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []model.Label{{Name: "bug", Color: "red"}}, []model.Label(task.Labels))
}

func TestTaskService_Delete_RenumbersList(t *testing.T) {
	f := setupTasks(t)
	first := f.create(t, "todo", "first")
	f.create(t, "todo", "second")
	f.create(t, "todo", "third")
	f.create(t, "done", "untouched")

	err := f.svc.Delete(context.Background(), f.owner, f.board.ID, first.ID)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"second": 0, "third": 1}, f.tasks.positionsIn(f.board.ID, "todo"))
	assert.Equal(t, map[string]int{"untouched": 0}, f.tasks.positionsIn(f.board.ID, "done"))
	assert.True(t, ordering.TasksContiguous(f.tasks.listTasks(f.board.ID, "todo")))
}

func TestTaskService_Delete_ScopedToBoard(t *testing.T) {
	f := setupTasks(t)
	other := setupTasks(t)
	foreign := other.create(t, "todo", "foreign")

	err := f.svc.Delete(context.Background(), f.owner, f.board.ID, foreign.ID)

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskService_Contiguity_AfterCreatesAndDeletes(t *testing.T) {
	f := setupTasks(t)
	var ids []uuid.UUID
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, f.create(t, "todo", title).ID)
	}

	for _, id := range []uuid.UUID{ids[2], ids[0], ids[4]} {
		require.NoError(t, f.svc.Delete(context.Background(), f.owner, f.board.ID, id))
		assert.True(t, ordering.TasksContiguous(f.tasks.listTasks(f.board.ID, "todo")))
	}
	f.create(t, "todo", "f")

	assert.Equal(t, map[string]int{"b": 0, "d": 1, "f": 2}, f.tasks.positionsIn(f.board.ID, "todo"))
}

func TestTaskService_Assign_Idempotent(t *testing.T) {
	f := setupTasks(t)
	task := f.create(t, "todo", "task")

	_, err := f.svc.Assign(context.Background(), f.owner, f.board.ID, task.ID, f.member)
	require.NoError(t, err)
	assigned, err := f.svc.Assign(context.Background(), f.owner, f.board.ID, task.ID, f.member)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{f.member}, []uuid.UUID(assigned.AssignedTo))
}

func TestTaskService_Assign_OwnerAllowed(t *testing.T) {
	f := setupTasks(t)
	task := f.create(t, "todo", "task")

	assigned, err := f.svc.Assign(context.Background(), f.member, f.board.ID, task.ID, f.owner)

	require.NoError(t, err)
	assert.True(t, assigned.IsAssigned(f.owner))
}

func TestTaskService_Assign_NonMember(t *testing.T) {
	f := setupTasks(t)
	task := f.create(t, "todo", "task")

	_, err := f.svc.Assign(context.Background(), f.owner, f.board.ID, task.ID, uuid.New())

	assert.ErrorIs(t, err, service.ErrNotBoardMember)
}

func TestTaskService_Assign_MissingTaskBeforeMembership(t *testing.T) {
	f := setupTasks(t)

	_, err := f.svc.Assign(context.Background(), f.owner, f.board.ID, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NotErrorIs(t, err, service.ErrNotBoardMember)
}

func TestTaskService_StrangerIsForbidden(t *testing.T) {
	f := setupTasks(t)
	task := f.create(t, "todo", "task")
	ctx := context.Background()
	stranger := uuid.New()
	title := "hijack"

	_, err := f.svc.Create(ctx, stranger, f.board.ID, service.CreateTaskInput{Title: "x", ListID: "todo"})
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.List(ctx, stranger, f.board.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.Get(ctx, stranger, f.board.ID, task.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.Update(ctx, stranger, f.board.ID, task.ID, service.UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.Reorder(ctx, stranger, f.board.ID, nil)
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.Move(ctx, stranger, f.board.ID, task.ID, "done", 0)
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = f.svc.Assign(ctx, stranger, f.board.ID, task.ID, stranger)
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, stranger, f.board.ID, task.ID), access.ErrForbidden)
}

func TestTaskService_Update_PartialFields(t *testing.T) {
	f := setupTasks(t)
	task := f.create(t, "todo", "task")
	done := true
	description := "<em>ship</em> it"

	updated, err := f.svc.Update(context.Background(), f.member, f.board.ID, task.ID, service.UpdateTaskInput{
		Description: &description,
		Completed:   &done,
	})

	require.NoError(t, err)
	assert.Equal(t, "task", updated.Title)
	assert.Equal(t, "ship it", updated.Description)
	assert.True(t, updated.Completed)
	assert.Equal(t, "todo", updated.ListID)
}

func TestTaskService_Reorder_TrustsCaller(t *testing.T) {
	f := setupTasks(t)
	a := f.create(t, "todo", "a")
	b := f.create(t, "todo", "b")

	tasks, err := f.svc.Reorder(context.Background(), f.owner, f.board.ID, []service.TaskPlacement{
		{ID: a.ID, ListID: "done", Position: 7},
		{ID: b.ID, ListID: "todo", Position: 3},
		{ID: uuid.New(), ListID: "todo", Position: 0},
	})

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].Title)
	assert.Equal(t, 3, tasks[0].Position)
	assert.Equal(t, "done", tasks[1].ListID)
	assert.Equal(t, 7, tasks[1].Position)
	assert.False(t, ordering.TasksContiguous(f.tasks.listTasks(f.board.ID, "todo")))
}

func TestTaskService_Reorder_StoreFailure(t *testing.T) {
	f := setupTasks(t)
	a := f.create(t, "todo", "a")
	f.tasks.placementErr = assert.AnError

	_, err := f.svc.Reorder(context.Background(), f.owner, f.board.ID, []service.TaskPlacement{
		{ID: a.ID, ListID: "todo", Position: 1},
	})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestTaskService_Reorder_FailedWriteDoesNotStopOthers(t *testing.T) {
	f := setupTasks(t)
	bad := f.create(t, "todo", "bad")
	a := f.create(t, "todo", "a")
	b := f.create(t, "todo", "b")
	f.tasks.failTask = map[uuid.UUID]error{bad.ID: assert.AnError}
	svc := service.NewTaskService(f.boards, f.tasks, 1)

	_, err := svc.Reorder(context.Background(), f.owner, f.board.ID, []service.TaskPlacement{
		{ID: bad.ID, ListID: "done", Position: 0},
		{ID: a.ID, ListID: "done", Position: 1},
		{ID: b.ID, ListID: "done", Position: 2},
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, f.tasks.positionsIn(f.board.ID, "done"))
	assert.Equal(t, map[string]int{"bad": 0}, f.tasks.positionsIn(f.board.ID, "todo"))
}

func TestTaskService_Move_AcrossLists(t *testing.T) {
	f := setupTasks(t)
	f.create(t, "todo", "a")
	b := f.create(t, "todo", "b")
	f.create(t, "todo", "c")
	f.create(t, "done", "x")
	f.create(t, "done", "y")

	moved, err := f.svc.Move(context.Background(), f.owner, f.board.ID, b.ID, "done", 1)

	require.NoError(t, err)
	assert.Equal(t, "done", moved.ListID)
	assert.Equal(t, 1, moved.Position)
	assert.Equal(t, map[string]int{"a": 0, "c": 1}, f.tasks.positionsIn(f.board.ID, "todo"))
	assert.Equal(t, map[string]int{"x": 0, "b": 1, "y": 2}, f.tasks.positionsIn(f.board.ID, "done"))
}

func TestTaskService_Move_ClampsTarget(t *testing.T) {
	f := setupTasks(t)
	a := f.create(t, "todo", "a")
	f.create(t, "todo", "b")
	f.create(t, "done", "x")

	moved, err := f.svc.Move(context.Background(), f.owner, f.board.ID, a.ID, "done", 42)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.Position)

	moved, err = f.svc.Move(context.Background(), f.owner, f.board.ID, a.ID, "done", -3)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Position)
	assert.Equal(t, map[string]int{"a": 0, "x": 1}, f.tasks.positionsIn(f.board.ID, "done"))
	assert.Equal(t, map[string]int{"b": 0}, f.tasks.positionsIn(f.board.ID, "todo"))
}

func TestTaskService_Move_WithinList(t *testing.T) {
	f := setupTasks(t)
	a := f.create(t, "todo", "a")
	f.create(t, "todo", "b")
	f.create(t, "todo", "c")

	_, err := f.svc.Move(context.Background(), f.owner, f.board.ID, a.ID, "todo", 10)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2}, f.tasks.positionsIn(f.board.ID, "todo"))

	_, err = f.svc.Move(context.Background(), f.owner, f.board.ID, a.ID, "todo", 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2}, f.tasks.positionsIn(f.board.ID, "todo"))
}

func TestTaskService_List_SortedByPosition(t *testing.T) {
	f := setupTasks(t)
	f.create(t, "todo", "a")
	f.create(t, "todo", "b")

	tasks, err := f.svc.List(context.Background(), f.member, f.board.ID)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "b", tasks[1].Title)
}
