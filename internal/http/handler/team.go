package handler

import (
	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/service"
)

type addMemberRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// FindMember looks up a registered user by email before adding them.
//
//	@Summary	Find user by email
//	@Tags		team
//	@Security	BearerAuth
//	@Param		projectId	path		string			true	"Project id"
//	@Param		body		body		emailRequest	true	"Email"
//	@Success	200			{object}	model.UserSummary
//	@Failure	404			{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId}/team/find [post]
func FindMember(svc service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emailRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		u, err := svc.FindMemberByEmail(c.UserContext(), req.Email)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(u)
	}
}

// @Summary	List team
// @Tags		team
// @Security	BearerAuth
// @Param		projectId	path	string	true	"Project id"
// @Success	200			{array}	model.UserSummary
// @Router		/api/projects/{projectId}/team [get]
func ListTeam(svc service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		members, err := svc.List(c.UserContext(), currentProject(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(members)
	}
}

// @Summary	Add team member
// @Tags		team
// @Security	BearerAuth
// @Param		projectId	path		string				true	"Project id"
// @Param		body		body		addMemberRequest	true	"User id"
// @Success	200			{object}	messageResponse
// @Failure	409			{object}	middleware.ErrorPayload
// @Router		/api/projects/{projectId}/team [post]
func AddMember(svc service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req addMemberRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := svc.Add(c.UserContext(), currentProject(c), currentUserID(c), req.ID); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "user added to the project")
	}
}

// @Summary	Remove team member
// @Tags		team
// @Security	BearerAuth
// @Param		projectId	path		string	true	"Project id"
// @Param		userId		path		string	true	"User id"
// @Success	200			{object}	messageResponse
// @Failure	409			{object}	middleware.ErrorPayload
// @Router		/api/projects/{projectId}/team/{userId} [delete]
func RemoveMember(svc service.TeamService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := validID(c, "userId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Remove(c.UserContext(), currentProject(c), currentUserID(c), userID); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "user removed from the project")
	}
}
