package handler_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/service"
)

// Мок сервиса досок
type MockBoardService struct {
	mock.Mock
}

func boardResult(args mock.Arguments) (*model.Board, error) {
	if b := args.Get(0); b != nil {
		return b.(*model.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoardService) Create(ctx context.Context, ownerID uuid.UUID, in service.CreateBoardInput) (*model.Board, error) {
	return boardResult(m.Called(ctx, ownerID, in))
}

func (m *MockBoardService) List(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.([]model.Board), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBoardService) Get(ctx context.Context, userID, boardID uuid.UUID) (*model.Board, error) {
	return boardResult(m.Called(ctx, userID, boardID))
}

func (m *MockBoardService) Update(ctx context.Context, userID, boardID uuid.UUID, in service.UpdateBoardInput) (*model.Board, error) {
	return boardResult(m.Called(ctx, userID, boardID, in))
}

func (m *MockBoardService) Delete(ctx context.Context, userID, boardID uuid.UUID) error {
	return m.Called(ctx, userID, boardID).Error(0)
}

func (m *MockBoardService) AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*model.Board, error) {
	return boardResult(m.Called(ctx, userID, boardID, memberID))
}

func (m *MockBoardService) AddList(ctx context.Context, userID, boardID uuid.UUID, title string) (model.List, error) {
	args := m.Called(ctx, userID, boardID, title)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockBoardService) UpdateList(ctx context.Context, userID, boardID, listID uuid.UUID, in service.UpdateListInput) (model.List, error) {
	args := m.Called(ctx, userID, boardID, listID, in)
	return args.Get(0).(model.List), args.Error(1)
}

func (m *MockBoardService) DeleteList(ctx context.Context, userID, boardID, listID uuid.UUID) error {
	return m.Called(ctx, userID, boardID, listID).Error(0)
}

func (m *MockBoardService) ReorderLists(ctx context.Context, userID, boardID uuid.UUID, entries []ordering.ListPosition) ([]model.List, error) {
	args := m.Called(ctx, userID, boardID, entries)
	if l := args.Get(0); l != nil {
		return l.([]model.List), args.Error(1)
	}
	return nil, args.Error(1)
}

// Мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func taskResult(args mock.Arguments) (*model.Task, error) {
	if t := args.Get(0); t != nil {
		return t.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func tasksResult(args mock.Arguments) ([]model.Task, error) {
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, userID, boardID uuid.UUID, in service.CreateTaskInput) (*model.Task, error) {
	return taskResult(m.Called(ctx, userID, boardID, in))
}

func (m *MockTaskService) List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Task, error) {
	return tasksResult(m.Called(ctx, userID, boardID))
}

func (m *MockTaskService) Get(ctx context.Context, userID, boardID, taskID uuid.UUID) (*model.Task, error) {
	return taskResult(m.Called(ctx, userID, boardID, taskID))
}

func (m *MockTaskService) Update(ctx context.Context, userID, boardID, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error) {
	return taskResult(m.Called(ctx, userID, boardID, taskID, in))
}

func (m *MockTaskService) Delete(ctx context.Context, userID, boardID, taskID uuid.UUID) error {
	return m.Called(ctx, userID, boardID, taskID).Error(0)
}

func (m *MockTaskService) Reorder(ctx context.Context, userID, boardID uuid.UUID, placements []service.TaskPlacement) ([]model.Task, error) {
	return tasksResult(m.Called(ctx, userID, boardID, placements))
}

func (m *MockTaskService) Move(ctx context.Context, userID, boardID, taskID uuid.UUID, listID string, position int) (*model.Task, error) {
	return taskResult(m.Called(ctx, userID, boardID, taskID, listID, position))
}

func (m *MockTaskService) Assign(ctx context.Context, userID, boardID, taskID, assignee uuid.UUID) (*model.Task, error) {
	return taskResult(m.Called(ctx, userID, boardID, taskID, assignee))
}

// setupTest собирает роутер с теми же маршрутами, что и сервер. Пользователь
// подставляется в контекст вместо JWT middleware.
func setupTest(userID uuid.UUID) (*gin.Engine, *MockBoardService, *MockTaskService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	boards := new(MockBoardService)
	tasks := new(MockTaskService)

	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	handler.RegisterRoutes(api, handler.NewBoardHandler(boards), handler.NewListHandler(boards), handler.NewTaskHandler(tasks))

	return r, boards, tasks
}
