package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the board, list and task endpoints on rg. The caller
// is expected to have installed the auth middleware on rg.
func RegisterRoutes(rg *gin.RouterGroup, boards *BoardHandler, lists *ListHandler, tasks *TaskHandler) {
	// Board routes
	rg.POST("/boards", boards.Create)
	rg.GET("/boards", boards.GetAll)
	rg.GET("/boards/:id", boards.GetByID)
	rg.PUT("/boards/:id", boards.Update)
	rg.DELETE("/boards/:id", boards.Delete)
	rg.POST("/boards/:id/members", boards.AddMember)

	// List routes
	rg.POST("/boards/:id/lists", lists.Create)
	rg.PUT("/boards/:id/lists/reorder", lists.Reorder)
	rg.PUT("/boards/:id/lists/:listId", lists.Update)
	rg.DELETE("/boards/:id/lists/:listId", lists.Delete)

	// Task routes
	rg.POST("/boards/:id/tasks", tasks.Create)
	rg.GET("/boards/:id/tasks", tasks.GetByBoardID)
	rg.PUT("/boards/:id/tasks/reorder", tasks.Reorder)
	rg.GET("/boards/:id/tasks/:taskId", tasks.GetByID)
	rg.PUT("/boards/:id/tasks/:taskId", tasks.Update)
	rg.DELETE("/boards/:id/tasks/:taskId", tasks.Delete)
	rg.POST("/boards/:id/tasks/:taskId/move", tasks.MoveTask)
	rg.POST("/boards/:id/tasks/:taskId/assign", tasks.AssignUser)
}
