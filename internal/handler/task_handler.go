package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TaskService is implemented by service.TaskService.
type TaskService interface {
	Create(ctx context.Context, userID, boardID uuid.UUID, in service.CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, userID, boardID uuid.UUID) ([]model.Task, error)
	Get(ctx context.Context, userID, boardID, taskID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, userID, boardID, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, userID, boardID, taskID uuid.UUID) error
	Reorder(ctx context.Context, userID, boardID uuid.UUID, placements []service.TaskPlacement) ([]model.Task, error)
	Move(ctx context.Context, userID, boardID, taskID uuid.UUID, listID string, position int) (*model.Task, error)
	Assign(ctx context.Context, userID, boardID, taskID, assignee uuid.UUID) (*model.Task, error)
}

type TaskHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// TaskRequest представляет запрос на создание задачи
type TaskRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	ListID      string        `json:"listId" binding:"required"`
	DueDate     *time.Time    `json:"dueDate"`
	Labels      []model.Label `json:"labels"`
}

// TaskUpdateRequest представляет запрос на обновление задачи
type TaskUpdateRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	DueDate     *time.Time     `json:"dueDate"`
	Labels      *[]model.Label `json:"labels"`
	Completed   *bool          `json:"completed"`
	ListID      *string        `json:"listId"`
	Position    *int           `json:"position"`
}

// TaskMoveRequest представляет запрос на перемещение задачи
type TaskMoveRequest struct {
	ListID   string `json:"listId" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}

// TaskReorderRequest представляет массовую перестановку задач
type TaskReorderRequest struct {
	Tasks []struct {
		ID       string `json:"id" binding:"required"`
		ListID   string `json:"listId" binding:"required"`
		Position *int   `json:"position" binding:"required"`
	} `json:"tasks" binding:"required,dive"`
}

// TaskAssignRequest представляет запрос на назначение пользователя на задачу
type TaskAssignRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

// TaskDeleteResponse is returned after a task is deleted.
type TaskDeleteResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

// Create создает новую задачу в конце списка
//
// @Summary  Create task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path     string      true "Board ID"
// @Param    task body     TaskRequest true "Task"
// @Success  201  {object} model.Task
// @Failure  403  {object} ErrorResponse
// @Failure  404  {object} ErrorResponse
// @Router   /boards/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	// Получаем ID текущего пользователя из контекста
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Парсим ID доски из URL
	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	// Парсим запрос
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Создаем задачу
	task, err := h.tasks.Create(c.Request.Context(), userID, boardID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ListID:      req.ListID,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetByBoardID получает все задачи доски
//
// @Summary  List tasks of a board
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id  path     string true "Board ID"
// @Success  200 {array}  model.Task
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /boards/{id}/tasks [get]
func (h *TaskHandler) GetByBoardID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

// GetByID получает задачу по ID
//
// @Summary  Get task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id     path     string true "Board ID"
// @Param    taskId path     string true "Task ID"
// @Success  200    {object} model.Task
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/tasks/{taskId} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), userID, boardID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update обновляет переданные поля задачи
//
// @Summary  Update task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     string            true "Board ID"
// @Param    taskId path     string            true "Task ID"
// @Param    task   body     TaskUpdateRequest true "Fields to change"
// @Success  200    {object} model.Task
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/tasks/{taskId} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	// Парсим запрос
	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), userID, boardID, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		Completed:   req.Completed,
		ListID:      req.ListID,
		Position:    req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete удаляет задачу
//
// @Summary  Delete task
// @Tags     Tasks
// @Security BearerAuth
// @Produce  json
// @Param    id     path     string true "Board ID"
// @Param    taskId path     string true "Task ID"
// @Success  200    {object} TaskDeleteResponse
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	// Удаляем задачу
	if err := h.tasks.Delete(c.Request.Context(), userID, boardID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TaskDeleteResponse{Message: "Task removed", TaskID: taskID.String()})
}

// Reorder записывает позиции задач, вычисленные клиентом
//
// @Summary  Reorder tasks
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id    path     string             true "Board ID"
// @Param    tasks body     TaskReorderRequest true "New placements"
// @Success  200   {array}  model.Task
// @Failure  403   {object} ErrorResponse
// @Failure  404   {object} ErrorResponse
// @Router   /boards/{id}/tasks/reorder [put]
func (h *TaskHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	var req TaskReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	placements := make([]service.TaskPlacement, len(req.Tasks))
	for i, t := range req.Tasks {
		taskID, err := uuid.Parse(t.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}
		placements[i] = service.TaskPlacement{ID: taskID, ListID: t.ListID, Position: *t.Position}
	}

	tasks, err := h.tasks.Reorder(c.Request.Context(), userID, boardID, placements)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

// MoveTask перемещает задачу между списками или изменяет её позицию
//
// @Summary  Move task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     string          true "Board ID"
// @Param    taskId path     string          true "Task ID"
// @Param    move   body     TaskMoveRequest true "Target list and position"
// @Success  200    {object} model.Task
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/tasks/{taskId}/move [post]
func (h *TaskHandler) MoveTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	// Парсим запрос
	var req TaskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Перемещаем задачу
	task, err := h.tasks.Move(c.Request.Context(), userID, boardID, taskID, req.ListID, *req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AssignUser назначает пользователя на задачу
//
// @Summary  Assign task
// @Tags     Tasks
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     string            true "Board ID"
// @Param    taskId path     string            true "Task ID"
// @Param    assign body     TaskAssignRequest true "Assignee"
// @Success  200    {object} model.Task
// @Failure  400    {object} ErrorResponse
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/tasks/{taskId}/assign [post]
func (h *TaskHandler) AssignUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	// Парсим запрос
	var req TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Парсим ID пользователя
	assignee, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	// Назначаем пользователя на задачу
	task, err := h.tasks.Assign(c.Request.Context(), userID, boardID, taskID, assignee)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}
