package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const projectTasksLimit = 500

type getProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	TaskCount   *int      `json:"task_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type getProjectWithTasksResponse struct {
	getProjectResponse
	Tasks []getTaskResponse `json:"tasks"`
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=4096"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.projects.GetProjects(c, userID)
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i := range projects {
		response[i] = newGetProjectResponse(&projects[i].Project)
		response[i].TaskCount = &projects[i].TaskCount
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projects.GetProjectByID(c, userID, c.Param("id"))
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	tasks, err := h.tasks.GetTasks(c, services.TaskFilter{
		UserID:    userID,
		ProjectID: project.ID,
		Limit:     projectTasksLimit,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	response := getProjectWithTasksResponse{
		getProjectResponse: newGetProjectResponse(project),
		Tasks:              newGetTasksResponse(tasks),
	}
	count := len(tasks)
	response.TaskCount = &count
	c.JSON(http.StatusOK, response)
}

type updateProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4096"`
	Color       *string `json:"color,omitempty" binding:"omitempty,hexcolor"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.UpdateProject(c, services.UpdateProjectParams{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	err := h.projects.DeleteProject(c, services.DeleteProjectParams{
		ID:     c.Param("id"),
		UserID: userID,
	})
	if err != nil {
		abort(c, newServiceError(err))
		return
	}

	c.Status(http.StatusNoContent)
}
