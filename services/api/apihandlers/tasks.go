package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	mw "github.com/taskdeck/taskdeck-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/taskdeck/taskdeck-backend/pkg/jwt-handling"
	"github.com/taskdeck/taskdeck-backend/pkg/tasks"
)

func (h *HttpEndpoints) AddTaskAPI(rg *gin.RouterGroup) {
	tasksGroup := rg.Group("/tasks")
	tasksGroup.Use(mw.GetAndValidateAccountJWT(h.tokenSignKey, h.accountDBConn))
	tasksGroup.Use(h.requireVerifiedSession())
	{
		tasksGroup.GET("", h.getTasks)
		tasksGroup.POST("", mw.RequirePayload(), h.createTask)
		tasksGroup.GET("/:taskID", h.getTask)
		tasksGroup.PUT("/:taskID", mw.RequirePayload(), h.updateTask)
		tasksGroup.PUT("/:taskID/status", mw.RequirePayload(), h.updateTaskStatus)
		tasksGroup.DELETE("/:taskID", h.deleteTask)
	}
}

// requireVerifiedSession blocks task access for sessions that have not
// passed the verification gate yet.
func (h *HttpEndpoints) requireVerifiedSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
		if !token.AccountVerified {
			slog.Warn("unverified session tried to access tasks", slog.String("subject", token.Subject))
			c.JSON(http.StatusForbidden, gin.H{"error": "account not verified"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *HttpEndpoints) getTasks(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	taskList, err := h.taskDBConn.GetTasksForOwner(token.Subject)
	if err != nil {
		slog.Error("failed to get tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": taskList})
}

type CreateTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     int64  `json:"dueDate"`
}

func (h *HttpEndpoints) createTask(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)

	var req CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	task, err := h.taskDBConn.CreateTask(tasks.Task{
		OwnerID:     token.Subject,
		Title:       req.Title,
		Description: req.Description,
		Status:      tasks.StatusTodo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		slog.Error("failed to create task", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("task created", slog.String("subject", token.Subject), slog.String("taskID", task.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *HttpEndpoints) getTask(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	taskID := c.Param("taskID")

	task, err := h.taskDBConn.GetTask(token.Subject, taskID)
	if err != nil {
		slog.Warn("task not found", slog.String("taskID", taskID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

type UpdateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *int64  `json:"dueDate"`
}

func (h *HttpEndpoints) updateTask(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	taskID := c.Param("taskID")

	var req UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == nil && req.Description == nil && req.DueDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if req.Title != nil && *req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
		return
	}

	task, err := h.taskDBConn.UpdateTaskFields(token.Subject, taskID, req.Title, req.Description, req.DueDate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		slog.Error("failed to update task", slog.String("taskID", taskID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

type UpdateTaskStatusReq struct {
	Status      string `json:"status"`
	BlockReason string `json:"blockReason"`
}

func (h *HttpEndpoints) updateTaskStatus(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	taskID := c.Param("taskID")

	var req UpdateTaskStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := tasks.TaskStatus(req.Status)

	inProgressCount, err := h.taskDBConn.CountTasksWithStatus(token.Subject, tasks.StatusInProgress, taskID)
	if err != nil {
		slog.Error("failed to count in progress tasks", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := tasks.CheckTransition(target, req.BlockReason, inProgressCount); err != nil {
		slog.Warn("invalid task transition", slog.String("taskID", taskID), slog.String("status", req.Status), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskDBConn.UpdateTaskStatus(token.Subject, taskID, target, req.BlockReason)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		slog.Error("failed to update task status", slog.String("taskID", taskID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("task status updated", slog.String("subject", token.Subject), slog.String("taskID", taskID), slog.String("status", req.Status))
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *HttpEndpoints) deleteTask(c *gin.Context) {
	token := c.MustGet("validatedToken").(*jwthandling.AccountClaims)
	taskID := c.Param("taskID")

	if err := h.taskDBConn.DeleteTask(token.Subject, taskID); err != nil {
		slog.Warn("failed to delete task", slog.String("taskID", taskID), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Info("task deleted", slog.String("subject", token.Subject), slog.String("taskID", taskID))
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}
