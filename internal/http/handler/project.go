package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/service"
)

type projectRequest struct {
	ProjectName string `json:"projectName" validate:"required"`
	ClientName  string `json:"clientName" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (r projectRequest) input() service.ProjectInput {
	return service.ProjectInput{ProjectName: r.ProjectName, ClientName: r.ClientName, Description: r.Description}
}

// CreateProject creates a project managed by the current user.
//
//	@Summary	Create project
//	@Tags		projects
//	@Security	BearerAuth
//	@Param		body	body		projectRequest	true	"Project"
//	@Success	201		{object}	model.Project
//	@Failure	400		{object}	middleware.ErrorPayload
//	@Router		/api/projects [post]
func CreateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req projectRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		p, err := svc.Create(c.UserContext(), currentUserID(c), req.input())
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProjects returns the projects the current user manages or belongs to.
//
//	@Summary	List projects
//	@Tags		projects
//	@Security	BearerAuth
//	@Param		limit	query		int	false	"Page size, at most 100"	default(10)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	service.ProjectListResult
//	@Router		/api/projects [get]
func ListProjects(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListForUser(c.UserContext(), currentUserID(c), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetProject returns the loaded project with its tasks.
//
//	@Summary	Get project
//	@Tags		projects
//	@Security	BearerAuth
//	@Param		projectId	path		string	true	"Project id"
//	@Success	200			{object}	model.Project
//	@Failure	404			{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId} [get]
func GetProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.GetWithTasks(c.UserContext(), currentProject(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateProject edits the project's names and description.
//
//	@Summary	Update project
//	@Tags		projects
//	@Security	BearerAuth
//	@Param		projectId	path		string			true	"Project id"
//	@Param		body		body		projectRequest	true	"Project"
//	@Success	200			{object}	messageResponse
//	@Router		/api/projects/{projectId} [put]
func UpdateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req projectRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if _, err := svc.Update(c.UserContext(), currentProject(c), currentUserID(c), req.input()); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "project updated")
	}
}

// DeleteProject removes the project and everything under it.
//
//	@Summary	Delete project
//	@Tags		projects
//	@Security	BearerAuth
//	@Param		projectId	path		string	true	"Project id"
//	@Success	200			{object}	messageResponse
//	@Router		/api/projects/{projectId} [delete]
func DeleteProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), currentProject(c), currentUserID(c)); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "project deleted")
	}
}
