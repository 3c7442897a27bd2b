package handler

import (
	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/http/middleware"
	"nexuspro/internal/model"
	"nexuspro/internal/service"
)

type taskRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (r taskRequest) input() service.TaskInput {
	return service.TaskInput{Name: r.Name, Description: r.Description}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateTask adds a pending task to the project.
//
//	@Summary	Create task
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		projectId	path		string		true	"Project id"
//	@Param		body		body		taskRequest	true	"Task"
//	@Success	201			{object}	model.Task
//	@Router		/api/projects/{projectId}/tasks [post]
func CreateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req taskRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		t, err := svc.Create(c.UserContext(), currentProject(c), currentUserID(c), req.input())
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ListTasks returns the project's tasks, oldest first.
//
//	@Summary	List tasks
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		projectId	path	string	true	"Project id"
//	@Success	200			{array}	model.Task
//	@Router		/api/projects/{projectId}/tasks [get]
func ListTasks(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tasks, err := svc.ListByProject(c.UserContext(), currentProject(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tasks)
	}
}

// GetTask returns the task with its status history and notes.
//
//	@Summary	Get task
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		projectId	path		string	true	"Project id"
//	@Param		taskId		path		string	true	"Task id"
//	@Success	200			{object}	model.Task
//	@Router		/api/projects/{projectId}/tasks/{taskId} [get]
func GetTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := svc.GetDetail(c.UserContext(), currentTask(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(t)
	}
}

// @Summary	Update task
// @Tags		tasks
// @Security	BearerAuth
// @Param		projectId	path		string		true	"Project id"
// @Param		taskId		path		string		true	"Task id"
// @Param		body		body		taskRequest	true	"Task"
// @Success	200			{object}	messageResponse
// @Router		/api/projects/{projectId}/tasks/{taskId} [put]
func UpdateTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req taskRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if _, err := svc.Update(c.UserContext(), currentTask(c), currentUserID(c), req.input()); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "task updated")
	}
}

// @Summary	Delete task
// @Tags		tasks
// @Security	BearerAuth
// @Param		projectId	path		string	true	"Project id"
// @Param		taskId		path		string	true	"Task id"
// @Success	200			{object}	messageResponse
// @Router		/api/projects/{projectId}/tasks/{taskId} [delete]
func DeleteTask(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), currentTask(c), currentUserID(c)); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "task deleted")
	}
}

// UpdateTaskStatus moves the task to another board column.
//
//	@Summary	Update task status
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		projectId	path		string			true	"Project id"
//	@Param		taskId		path		string			true	"Task id"
//	@Param		body		body		statusRequest	true	"Status"
//	@Success	200			{object}	messageResponse
//	@Failure	400			{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId}/tasks/{taskId}/status [post]
func UpdateTaskStatus(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req statusRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		actor := middleware.CurrentUser(c).Summary()
		if _, err := svc.UpdateStatus(c.UserContext(), currentTask(c), actor, model.TaskStatus(req.Status)); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "task status updated")
	}
}
