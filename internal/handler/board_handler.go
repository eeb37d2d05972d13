package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/service"
)

// BoardService is implemented by service.BoardService.
type BoardService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in service.CreateBoardInput) (*model.Board, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Get(ctx context.Context, userID, boardID uuid.UUID) (*model.Board, error)
	Update(ctx context.Context, userID, boardID uuid.UUID, in service.UpdateBoardInput) (*model.Board, error)
	Delete(ctx context.Context, userID, boardID uuid.UUID) error
	AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*model.Board, error)
	AddList(ctx context.Context, userID, boardID uuid.UUID, title string) (model.List, error)
	UpdateList(ctx context.Context, userID, boardID, listID uuid.UUID, in service.UpdateListInput) (model.List, error)
	DeleteList(ctx context.Context, userID, boardID, listID uuid.UUID) error
	ReorderLists(ctx context.Context, userID, boardID uuid.UUID, entries []ordering.ListPosition) ([]model.List, error)
}

type BoardHandler struct {
	boards BoardService
}

func NewBoardHandler(boards BoardService) *BoardHandler {
	return &BoardHandler{
		boards: boards,
	}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Background  string `json:"background"`
}

type UpdateBoardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Background  string `json:"background"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

// Create creates a new board for the authenticated user
//
// @Summary  Create board
// @Tags     Boards
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    board body     CreateBoardRequest true "Board"
// @Success  201   {object} model.Board
// @Failure  400   {object} ErrorResponse
// @Router   /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	// Get user ID from context (set by auth middleware)
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Parse request body
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boards.Create(c.Request.Context(), ownerID, service.CreateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board)
}

// GetAll returns the boards the user owns or is a member of, newest first
//
// @Summary  List boards
// @Tags     Boards
// @Security BearerAuth
// @Produce  json
// @Success  200 {array} model.Board
// @Router   /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boards.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if boards == nil {
		boards = []model.Board{}
	}

	c.JSON(http.StatusOK, boards)
}

// GetByID returns one board with its lists ordered by position
//
// @Summary  Get board
// @Tags     Boards
// @Security BearerAuth
// @Produce  json
// @Param    id  path     string true "Board ID"
// @Success  200 {object} model.Board
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Parse board ID from URL
	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	board, err := h.boards.Get(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// Update changes title, description or background. Only the owner may do it.
//
// @Summary  Update board
// @Tags     Boards
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id    path     string             true "Board ID"
// @Param    board body     UpdateBoardRequest true "Fields to change"
// @Success  200   {object} model.Board
// @Failure  403   {object} ErrorResponse
// @Failure  404   {object} ErrorResponse
// @Router   /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boards.Update(c.Request.Context(), userID, boardID, service.UpdateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Background:  req.Background,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// Delete removes the board. Tasks of the board are kept.
//
// @Summary  Delete board
// @Tags     Boards
// @Security BearerAuth
// @Produce  json
// @Param    id  path     string true "Board ID"
// @Success  200 {object} MessageResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	if err := h.boards.Delete(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board removed"})
}

// AddMember adds a user to the board members. Only the owner may do it.
//
// @Summary  Add board member
// @Tags     Boards
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     string           true "Board ID"
// @Param    member body     AddMemberRequest true "Member"
// @Success  200    {object} model.Board
// @Failure  400    {object} ErrorResponse
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/members [post]
func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	memberID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	board, err := h.boards.AddMember(c.Request.Context(), userID, boardID, memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
