package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"nexuspro/internal/service"
)

// UploadAttachment stores a file (multipart field "file") on the task.
//
//	@Summary	Upload attachment
//	@Tags		attachments
//	@Security	BearerAuth
//	@Accept		multipart/form-data
//	@Param		projectId	path		string	true	"Project id"
//	@Param		taskId		path		string	true	"Task id"
//	@Param		file		formData	file	true	"File"
//	@Success	201			{object}	model.Attachment
//	@Failure	400			{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId}/tasks/{taskId}/attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		a, err := svc.Upload(c.UserContext(), currentTask(c), currentUserID(c), service.UploadInput{
			Reader:           f,
			OriginalFilename: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// @Summary	List attachments
// @Tags		attachments
// @Security	BearerAuth
// @Param		projectId	path	string	true	"Project id"
// @Param		taskId		path	string	true	"Task id"
// @Success	200			{array}	model.Attachment
// @Router		/api/projects/{projectId}/tasks/{taskId}/attachments [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), currentTask(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	}
}

// DownloadAttachment redirects to a short-lived pre-signed URL. With
// ?inline=true the object is streamed through the API instead.
//
//	@Summary	Download attachment
//	@Tags		attachments
//	@Security	BearerAuth
//	@Param		projectId		path	string	true	"Project id"
//	@Param		taskId			path	string	true	"Task id"
//	@Param		attachmentId	path	string	true	"Attachment id"
//	@Param		inline			query	bool	false	"Stream the file instead of redirecting"
//	@Success	200
//	@Success	302
//	@Failure	404	{object}	middleware.ErrorPayload
//	@Router		/api/projects/{projectId}/tasks/{taskId}/attachments/{attachmentId} [get]
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "attachmentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), currentTask(c), id)
		if err != nil {
			return respondError(c, err)
		}
		if c.QueryBool("inline") {
			rc, info, err := svc.Open(c.UserContext(), a)
			if err != nil {
				return respondError(c, err)
			}
			ct := info.ContentType
			if ct == "" {
				ct = a.ContentType
			}
			c.Set(fiber.HeaderContentType, ct)
			c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": a.OriginalFilename}))
			// fasthttp closes rc once the body is written.
			return c.SendStream(rc, int(info.Size))
		}

		url, err := svc.DownloadURL(c.UserContext(), a)
		if err != nil {
			return respondError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// @Summary	Delete attachment
// @Tags		attachments
// @Security	BearerAuth
// @Param		projectId		path		string	true	"Project id"
// @Param		taskId			path		string	true	"Task id"
// @Param		attachmentId	path		string	true	"Attachment id"
// @Success	200				{object}	messageResponse
// @Failure	403				{object}	middleware.ErrorPayload
// @Router		/api/projects/{projectId}/tasks/{taskId}/attachments/{attachmentId} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "attachmentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), currentProject(c), currentTask(c), currentUserID(c), id); err != nil {
			return respondError(c, err)
		}
		return message(c, fiber.StatusOK, "attachment deleted")
	}
}
