package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"nexuspro/internal/model"
	"nexuspro/internal/service"
)

// Authenticator resolves a JWT to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, jwt string) (*model.User, error)
}

// ProjectLoader fetches a project with its team.
type ProjectLoader interface {
	Get(ctx context.Context, id string) (*model.Project, error)
}

// Handler upgrades /ws requests from project participants.
type Handler struct {
	hub      *Hub
	auth     Authenticator
	projects ProjectLoader
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the WebSocket endpoint. Browsers are only accepted from allowedOrigin.
func NewHandler(hub *Hub, auth Authenticator, projects ProjectLoader, allowedOrigin string, log *zap.Logger) *Handler {
	return &Handler{
		hub:      hub,
		auth:     auth,
		projects: projects,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || strings.EqualFold(strings.TrimRight(origin, "/"), allowedOrigin)
			},
		},
		log: log.With(zap.String("component", "realtime")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
		return
	}
	user, err := h.auth.Authenticate(ctx, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
		return
	}

	projectID := r.URL.Query().Get("project")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", "project is required")
		return
	}
	if _, err := uuid.Parse(projectID); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid id format")
		return
	}
	project, err := h.projects.Get(ctx, projectID)
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "project not found")
		return
	case err != nil:
		h.log.Error("realtime_project_lookup_failed", zap.String("project_id", projectID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	if err := service.RequireAccess(project, user.ID); err != nil {
		writeError(w, http.StatusNotFound, "INVALID_ACTION", "invalid action")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		h.log.Debug("realtime_upgrade_failed", zap.Error(err))
		return
	}

	c := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		projectID: project.ID,
		userID:    user.ID,
		log:       h.log.With(zap.String("project_id", project.ID), zap.String("user_id", user.ID)),
	}
	if !h.hub.join(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// NewServer wraps the handler in its own traced HTTP server on addr.
func NewServer(addr string, h *Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(mux, "realtime"),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
