package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/altaimate/internal/model"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	CreateProject(ctx context.Context, name, projectType string) (*model.ProjectRecord, error)
	ListProjects(ctx context.Context) ([]model.ProjectRecord, error)
	GetProject(ctx context.Context, id string) (*model.ProjectRecord, error)
	ListServers(ctx context.Context) ([]model.ServerRecord, error)
}

// CatalogHandler はモックのプロジェクト・サーバー一覧のHTTPハンドラー。
type CatalogHandler struct {
	service CatalogServiceInterface
	logger  *slog.Logger
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

type createProjectRecordRequest struct {
	Name        string `json:"name"`
	ProjectType string `json:"projectType"`
}

type projectRecordResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ProjectType string    `json:"projectType"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type serverRecordResponse struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"`
	ServerType string    `json:"serverType"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateProject はプロジェクトレコードを作成する。
// POST /api/projects
func (h *CatalogHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.service.CreateProject(r.Context(), req.Name, req.ProjectType)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": toProjectRecordResponse(*rec),
	})
}

// ListProjects はプロジェクトレコードの一覧を返す。
// GET /api/projects
func (h *CatalogHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListProjects(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	projects := make([]projectRecordResponse, 0, len(records))
	for _, rec := range records {
		projects = append(projects, toProjectRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// GetProject は指定IDのプロジェクトレコードを返す。
// GET /api/projects/{id}
func (h *CatalogHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": toProjectRecordResponse(*rec)})
}

// ListServers はサーバーレコードの一覧を返す。
// GET /api/servers
func (h *CatalogHandler) ListServers(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListServers(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	servers := make([]serverRecordResponse, 0, len(records))
	for _, rec := range records {
		servers = append(servers, serverRecordResponse{
			ID:         rec.ID,
			Provider:   rec.Provider,
			ServerType: rec.ServerType,
			Status:     rec.Status,
			CreatedAt:  rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"servers": servers})
}

func toProjectRecordResponse(rec model.ProjectRecord) projectRecordResponse {
	return projectRecordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		ProjectType: rec.ProjectType,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
	}
}
