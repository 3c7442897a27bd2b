package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nexuspro/internal/http/middleware"
	"nexuspro/internal/model"
	"nexuspro/internal/service"
)

const (
	projectLocalKey = "project"
	taskLocalKey    = "task"
)

// ProjectExists loads :projectId into the request locals.
func ProjectExists(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "projectId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(projectLocalKey, p)
		return c.Next()
	}
}

// ProjectAccess lets through the project manager and team members.
func ProjectAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.RequireAccess(currentProject(c), currentUserID(c)); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// HasAuthorization lets through the project manager only.
func HasAuthorization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.RequireManager(currentProject(c), currentUserID(c)); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// TaskExists loads :taskId into the request locals.
func TaskExists(svc service.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "taskId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		t, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(taskLocalKey, t)
		return c.Next()
	}
}

// TaskBelongsToProject rejects tasks loaded under another project's path.
func TaskBelongsToProject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := service.RequireTaskInProject(currentProject(c), currentTask(c)); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

func currentProject(c *fiber.Ctx) *model.Project {
	p, _ := c.Locals(projectLocalKey).(*model.Project)
	return p
}

func currentTask(c *fiber.Ctx) *model.Task {
	t, _ := c.Locals(taskLocalKey).(*model.Task)
	return t
}

func currentUserID(c *fiber.Ctx) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// messageResponse is the body of mutations that return no resource.
type messageResponse struct {
	Message string `json:"message"`
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(messageResponse{Message: msg})
}

// validID reports whether s is a UUID. Path ids are checked before any lookup.
func validID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	_, err := uuid.Parse(id)
	return id, err == nil
}
