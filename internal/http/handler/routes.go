package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexuspro/internal/http/middleware"
	"nexuspro/internal/service"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Auth        service.AuthService
	Projects    service.ProjectService
	Tasks       service.TaskService
	Team        service.TeamService
	Notes       service.NoteService
	Attachments service.AttachmentService
}

// RegisterRoutes attaches ops endpoints and the /api routes to app.
// Resource loaders run per route, in order: project, access check, task.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", SwaggerUI())

	api := app.Group("/api")
	authenticate := middleware.Authenticate(svc.Auth)

	registerAuthRoutes(api.Group("/auth"), svc.Auth, authenticate)

	projects := api.Group("/projects", authenticate)
	registerProjectRoutes(projects, svc)
	registerTeamRoutes(projects, svc)
	registerTaskRoutes(projects, svc)
	registerNoteRoutes(projects, svc)
	registerAttachmentRoutes(projects, svc)
}

func registerAuthRoutes(r fiber.Router, auth service.AuthService, authenticate fiber.Handler) {
	r.Post("/create-account", CreateAccount(auth))
	r.Post("/confirm-account", ConfirmAccount(auth))
	r.Post("/login", Login(auth))
	r.Post("/request-code", RequestCode(auth))
	r.Post("/forgot-password", ForgotPassword(auth))
	r.Post("/validate-token", ValidateToken(auth))
	r.Post("/update-password/:token", UpdatePasswordWithToken(auth))

	r.Get("/user", authenticate, CurrentUser())
	r.Put("/profile", authenticate, UpdateProfile(auth))
	r.Post("/update-password", authenticate, UpdateCurrentUserPassword(auth))
	r.Post("/check-password", authenticate, CheckPassword(auth))
}

func registerProjectRoutes(r fiber.Router, svc Services) {
	load := ProjectExists(svc.Projects)

	r.Post("/", CreateProject(svc.Projects))
	r.Get("/", ListProjects(svc.Projects))
	r.Get("/:projectId", load, ProjectAccess(), GetProject(svc.Projects))
	r.Put("/:projectId", load, HasAuthorization(), UpdateProject(svc.Projects))
	r.Delete("/:projectId", load, HasAuthorization(), DeleteProject(svc.Projects))
}

func registerTeamRoutes(r fiber.Router, svc Services) {
	load := ProjectExists(svc.Projects)

	r.Post("/:projectId/team/find", load, HasAuthorization(), FindMember(svc.Team))
	r.Get("/:projectId/team", load, ProjectAccess(), ListTeam(svc.Team))
	r.Post("/:projectId/team", load, HasAuthorization(), AddMember(svc.Team))
	r.Delete("/:projectId/team/:userId", load, HasAuthorization(), RemoveMember(svc.Team))
}

func registerTaskRoutes(r fiber.Router, svc Services) {
	load := ProjectExists(svc.Projects)

	r.Post("/:projectId/tasks", load, HasAuthorization(), CreateTask(svc.Tasks))
	r.Get("/:projectId/tasks", load, ProjectAccess(), ListTasks(svc.Tasks))

	const task = "/:projectId/tasks/:taskId"
	r.Get(task, taskChain(svc, ProjectAccess(), GetTask(svc.Tasks))...)
	r.Put(task, taskChain(svc, HasAuthorization(), UpdateTask(svc.Tasks))...)
	r.Delete(task, taskChain(svc, HasAuthorization(), DeleteTask(svc.Tasks))...)
	r.Post(task+"/status", taskChain(svc, ProjectAccess(), UpdateTaskStatus(svc.Tasks))...)
}

func registerNoteRoutes(r fiber.Router, svc Services) {
	const notes = "/:projectId/tasks/:taskId/notes"
	r.Post(notes, taskChain(svc, ProjectAccess(), CreateNote(svc.Notes))...)
	r.Get(notes, taskChain(svc, ProjectAccess(), ListNotes(svc.Notes))...)
	r.Delete(notes+"/:noteId", taskChain(svc, ProjectAccess(), DeleteNote(svc.Notes))...)
}

func registerAttachmentRoutes(r fiber.Router, svc Services) {
	const attachments = "/:projectId/tasks/:taskId/attachments"
	r.Post(attachments, taskChain(svc, ProjectAccess(), UploadAttachment(svc.Attachments))...)
	r.Get(attachments, taskChain(svc, ProjectAccess(), ListAttachments(svc.Attachments))...)
	r.Get(attachments+"/:attachmentId", taskChain(svc, ProjectAccess(), DownloadAttachment(svc.Attachments))...)
	r.Delete(attachments+"/:attachmentId", taskChain(svc, ProjectAccess(), DeleteAttachment(svc.Attachments))...)
}

// taskChain loads the project, checks access, then loads the task under it.
func taskChain(svc Services, access, h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{
		ProjectExists(svc.Projects),
		access,
		TaskExists(svc.Tasks),
		TaskBelongsToProject(),
		h,
	}
}
