package handler

import (
	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/http/middleware"
	"nexuspro/internal/service"
)

type noteRequest struct {
	Content string `json:"content" validate:"required"`
}

// @Summary	Create note
// @Tags		notes
// @Security	BearerAuth
// @Param		projectId	path		string		true	"Project id"
// @Param		taskId		path		string		true	"Task id"
// @Param		body		body		noteRequest	true	"Note"
// @Success	201			{object}	model.Note
// @Router		/api/projects/{projectId}/tasks/{taskId}/notes [post]
func CreateNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req noteRequest
		if err := bind(c, &req); err != nil {
			return respondError(c, err)
		}
		n, err := svc.Create(c.UserContext(), currentTask(c), middleware.CurrentUser(c).Summary(), req.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

// @Summary	List notes
// @Tags		notes
// @Security	BearerAuth
// @Param		projectId	path	string	true	"Project id"
// @Param		taskId		path	string	true	"Task id"
// @Success	200			{array}	model.Note
// @Router		/api/projects/{projectId}/tasks/{taskId}/notes [get]
func ListNotes(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := svc.ListByTask(c.UserContext(), currentTask(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(notes)
	}
}

// DeleteNote removes a note. Only its author may do so.
//
//	@Summary	Delete note
//	@Tags		notes
//	@Security	BearerAuth
//	@Param		projectId	path		string	true	"Project id"
//	@Param		taskId		path		string	true	"Task id"
//	@Param		noteId		path		string	true	"Note id"
//	@Success	200			{object}	messageResponse
//	@Failure	401			{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId}/tasks/{taskId}/notes/{noteId} [delete]
func DeleteNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID, ok := validID(c, "noteId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), currentTask(c), currentUserID(c), noteID); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "note deleted")
	}
}
