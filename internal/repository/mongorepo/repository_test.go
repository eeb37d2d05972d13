package mongorepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mongorepo"
)

func TestBoardRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		board := &model.Board{ID: uuid.New(), Title: "Roadmap", OwnerID: uuid.New(), Lists: model.DefaultLists()}
		err := repo.Create(context.Background(), board)

		assert.NoError(mt, err)
		assert.False(mt, board.CreatedAt.IsZero())
	})

	mt.Run("get by id decodes embedded lists", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		boardID, ownerID, memberID, listID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.boards", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: boardID.String()},
			{Key: "title", Value: "Roadmap"},
			{Key: "owner", Value: ownerID.String()},
			{Key: "members", Value: bson.A{memberID.String()}},
			{Key: "lists", Value: bson.A{
				bson.D{{Key: "id", Value: listID.String()}, {Key: "title", Value: "Done"}, {Key: "position", Value: 0}},
			}},
			{Key: "background", Value: model.DefaultBackground},
			{Key: "createdAt", Value: time.Now()},
		}))

		board, err := repo.GetByID(context.Background(), boardID)

		require.NoError(mt, err)
		assert.Equal(mt, ownerID, board.OwnerID)
		assert.True(mt, board.IsMember(memberID))
		require.Len(mt, board.Lists, 1)
		assert.Equal(mt, listID, board.Lists[0].ID)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.boards", mtest.FirstBatch))

		board, err := repo.GetByID(context.Background(), uuid.New())

		assert.ErrorIs(mt, err, repository.ErrBoardNotFound)
		assert.Nil(mt, board)
	})

	mt.Run("list for user", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		userID := uuid.New()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.boards", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: uuid.NewString()}, {Key: "title", Value: "Mine"}, {Key: "owner", Value: userID.String()}},
			bson.D{{Key: "_id", Value: uuid.NewString()}, {Key: "title", Value: "Shared"}, {Key: "owner", Value: uuid.NewString()}, {Key: "members", Value: bson.A{userID.String()}}},
		))

		boards, err := repo.ListForUser(context.Background(), userID)

		require.NoError(mt, err)
		require.Len(mt, boards, 2)
		assert.True(mt, boards[0].IsOwner(userID))
		assert.True(mt, boards[1].IsMember(userID))
	})

	mt.Run("update missing board", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(context.Background(), &model.Board{ID: uuid.New(), OwnerID: uuid.New()})

		assert.ErrorIs(mt, err, repository.ErrBoardNotFound)
	})

	mt.Run("delete missing board", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), uuid.New())

		assert.ErrorIs(mt, err, repository.ErrBoardNotFound)
	})

	mt.Run("corrupt owner id", func(mt *mtest.T) {
		repo := mongorepo.NewBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.boards", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "owner", Value: "not-a-uuid"},
		}))

		_, err := repo.GetByID(context.Background(), uuid.New())

		assert.Error(mt, err)
	})
}

func TestTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("max position of empty list", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.tasks", mtest.FirstBatch))

		last, err := repo.MaxPosition(context.Background(), uuid.New(), "todo")

		assert.NoError(mt, err)
		assert.Equal(mt, -1, last)
	})

	mt.Run("max position", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.tasks", mtest.FirstBatch,
			bson.D{{Key: "position", Value: 7}}))

		last, err := repo.MaxPosition(context.Background(), uuid.New(), "todo")

		assert.NoError(mt, err)
		assert.Equal(mt, 7, last)
	})

	mt.Run("list by board", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		boardID := uuid.New()
		assignee := uuid.New()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.tasks", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: uuid.NewString()}, {Key: "title", Value: "a"}, {Key: "boardId", Value: boardID.String()},
				{Key: "listId", Value: "todo"}, {Key: "position", Value: 0},
				{Key: "labels", Value: bson.A{bson.D{{Key: "name", Value: "bug"}, {Key: "color", Value: "red"}}}},
				{Key: "assignedTo", Value: bson.A{assignee.String()}},
			},
			bson.D{
				{Key: "_id", Value: uuid.NewString()}, {Key: "title", Value: "b"}, {Key: "boardId", Value: boardID.String()},
				{Key: "listId", Value: "todo"}, {Key: "position", Value: 1},
			},
		))

		tasks, err := repo.ListByBoard(context.Background(), boardID)

		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "bug", tasks[0].Labels[0].Name)
		assert.True(mt, tasks[0].IsAssigned(assignee))
		assert.Equal(mt, 1, tasks[1].Position)
	})

	mt.Run("get in board not found", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskboard.tasks", mtest.FirstBatch))

		task, err := repo.GetInBoard(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(mt, err, repository.ErrTaskNotFound)
		assert.Nil(mt, task)
	})

	mt.Run("shift positions", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 3}))

		err := repo.ShiftPositions(context.Background(), uuid.New(), ordering.ListShift{
			ListID: "todo",
			Shift:  ordering.InsertShift(0),
		})

		assert.NoError(mt, err)
	})

	mt.Run("set placement without match", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		matched, err := repo.SetPlacement(context.Background(), uuid.New(), uuid.New(), "done", 2)

		assert.NoError(mt, err)
		assert.False(mt, matched)
	})

	mt.Run("relocate", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		task := &model.Task{ID: uuid.New(), BoardID: uuid.New(), ListID: "done", Position: 0}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		err := repo.Relocate(context.Background(), task, ordering.PlanTaskMove("todo", 1, "done", 0))

		assert.NoError(mt, err)
	})

	mt.Run("relocate stops at first failure", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		task := &model.Task{ID: uuid.New(), BoardID: uuid.New(), ListID: "done", Position: 0}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		err := repo.Relocate(context.Background(), task, ordering.PlanTaskMove("todo", 1, "done", 0))

		assert.Error(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := mongorepo.NewTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := repo.Delete(context.Background(), uuid.New())

		assert.NoError(mt, err)
	})
}
