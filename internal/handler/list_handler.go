package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/ordering"
	"taskboard/internal/service"
)

// ListHandler serves the lists embedded in a board.
type ListHandler struct {
	boards BoardService
}

func NewListHandler(boards BoardService) *ListHandler {
	return &ListHandler{boards: boards}
}

type CreateListRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateListRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

type ReorderListsRequest struct {
	Lists []struct {
		ID       string `json:"id" binding:"required"`
		Position *int   `json:"position" binding:"required"`
	} `json:"lists" binding:"required,dive"`
}

// Create appends a list to the board
//
// @Summary  Add list
// @Tags     Lists
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path     string            true "Board ID"
// @Param    list body     CreateListRequest true "List"
// @Success  201  {object} model.List
// @Failure  403  {object} ErrorResponse
// @Failure  404  {object} ErrorResponse
// @Router   /boards/{id}/lists [post]
func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	list, err := h.boards.AddList(c.Request.Context(), userID, boardID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

// Update renames a list and/or moves it to a new position
//
// @Summary  Update or move list
// @Tags     Lists
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path     string            true "Board ID"
// @Param    listId path     string            true "List ID"
// @Param    list   body     UpdateListRequest true "Title and/or position"
// @Success  200    {object} model.List
// @Failure  400    {object} ErrorResponse
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/lists/{listId} [put]
func (h *ListHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "listId", "list")
	if !ok {
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	list, err := h.boards.UpdateList(c.Request.Context(), userID, boardID, listID, service.UpdateListInput{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Delete removes the list and renumbers the remaining ones. Tasks are kept.
//
// @Summary  Delete list
// @Tags     Lists
// @Security BearerAuth
// @Produce  json
// @Param    id     path     string true "Board ID"
// @Param    listId path     string true "List ID"
// @Success  200    {object} MessageResponse
// @Failure  403    {object} ErrorResponse
// @Failure  404    {object} ErrorResponse
// @Router   /boards/{id}/lists/{listId} [delete]
func (h *ListHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}
	listID, ok := uuidParam(c, "listId", "list")
	if !ok {
		return
	}

	if err := h.boards.DeleteList(c.Request.Context(), userID, boardID, listID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List removed"})
}

// Reorder writes the positions computed by the client as given
//
// @Summary  Reorder lists
// @Tags     Lists
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id    path     string              true "Board ID"
// @Param    lists body     ReorderListsRequest true "New positions"
// @Success  200   {array}  model.List
// @Failure  403   {object} ErrorResponse
// @Failure  404   {object} ErrorResponse
// @Router   /boards/{id}/lists/reorder [put]
func (h *ListHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	boardID, ok := uuidParam(c, "id", "board")
	if !ok {
		return
	}

	var req ReorderListsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entries := make([]ordering.ListPosition, len(req.Lists))
	for i, l := range req.Lists {
		listID, err := uuid.Parse(l.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID format"})
			return
		}
		entries[i] = ordering.ListPosition{ID: listID, Position: *l.Position}
	}

	lists, err := h.boards.ReorderLists(c.Request.Context(), userID, boardID, entries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lists)
}
