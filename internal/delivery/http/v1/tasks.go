package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type getTaskResponse struct {
	ID          string    `json:"id"`
	ProjectID   *string   `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Prioritized bool      `json:"prioritized"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Prioritized: task.Prioritized,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newGetTasksResponse(tasks []models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i := range tasks {
		response[i] = newGetTaskResponse(&tasks[i])
	}
	return response
}

type createTaskRequest struct {
	ProjectID   *string `json:"project_id,omitempty" binding:"omitempty,min=1"`
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=4096"`
	Status      string  `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Prioritized *bool   `json:"prioritized,omitempty"`
	DueDate     *string `json:"due_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Prioritized: req.Prioritized,
		DueDate:     req.DueDate,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

type getTasksQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low medium high"`
	ProjectID string `form:"project_id"`
	DueDate   string `form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Search    string `form:"search" binding:"max=255"`
	Offset    uint32 `form:"offset"`
	Limit     uint32 `form:"limit" binding:"max=500"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var query getTasksQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError(errInvalidQuery.Error()))
		return
	}

	tasks, err := h.tasks.GetTasks(c, services.TaskFilter{
		UserID:    userID,
		Status:    query.Status,
		Priority:  query.Priority,
		ProjectID: query.ProjectID,
		DueDate:   query.DueDate,
		Search:    query.Search,
		Offset:    query.Offset,
		Limit:     query.Limit,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c, userID, c.Param("id"))
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title        *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description  *string `json:"description,omitempty" binding:"omitempty,max=4096"`
	Priority     *string `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	Prioritized  *bool   `json:"prioritized,omitempty"`
	DueDate      *string `json:"due_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	ClearDueDate bool    `json:"clear_due_date"`
	ProjectID    *string `json:"project_id,omitempty" binding:"omitempty,min=1"`
	ClearProject bool    `json:"clear_project"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:           c.Param("id"),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Prioritized:  req.Prioritized,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		ProjectID:    req.ProjectID,
		ClearProject: req.ClearProject,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	if status == "" {
		h.logger.Error().Msg("no status provided")
		abort(c, newBadRequestError("status is required"))
		return
	}

	task, err := h.tasks.UpdateTaskStatus(c, services.UpdateTaskStatusParams{
		ID:     c.Param("id"),
		UserID: userID,
		Status: status,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleToggleTaskPrioritized(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTaskPrioritized(c, userID, c.Param("id"))
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		ID:     c.Param("id"),
		UserID: userID,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleExportTasks(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	now := h.now()
	var buf bytes.Buffer
	err := h.exports.WriteTasksXLSX(c, userID, now, &buf)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to export tasks")
		abort(c, newServiceError(err))
		return
	}

	filename := fmt.Sprintf("tasks-%s.xlsx", now.Format(models.DueDateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
