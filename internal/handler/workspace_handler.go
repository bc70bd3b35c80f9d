package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/altaimate/internal/generation"
	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/workspace"
)

// maxGeneratedNameRunes はプロンプトから導出するプロジェクト名の最大文字数。
const maxGeneratedNameRunes = 50

// WorkspaceStore はワークスペースハンドラーが必要とするストアのインターフェース。
type WorkspaceStore interface {
	Snapshot() model.Snapshot
	CurrentProject() *model.Project
	Login(email, password string) (*model.User, error)
	Register(email, password, name string) (*model.User, error)
	Logout() error
	UpdateSubscription(tier model.SubscriptionTier) (*model.User, error)
	CreateProject(name, projectType string, files map[string]string) (*model.Project, error)
	UpdateProject(id string, update workspace.ProjectUpdate) (*model.Project, error)
	UpdateProjectFiles(id string, files map[string]string) (*model.Project, error)
	DeleteProject(id string) error
	SetCurrentProject(id string) (*model.Project, error)
	KeyStatus() workspace.KeyStatus
	SaveAPIKeys(keys model.APIKeySet) error
	KeySource
}

// AppGenerator はアプリのファイル一式を生成する。generation.Serviceが実装する。
type AppGenerator interface {
	GenerateApp(ctx context.Context, req generation.AppRequest) (*generation.AppResult, error)
}

// WorkspaceHandler はアプリケーション状態のHTTPハンドラー。
type WorkspaceHandler struct {
	store     WorkspaceStore
	generator AppGenerator
	logger    *slog.Logger
}

// NewWorkspaceHandler はWorkspaceHandlerを生成する。
func NewWorkspaceHandler(store WorkspaceStore, generator AppGenerator, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{store: store, generator: generator, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type createProjectRequest struct {
	Name  string            `json:"name"`
	Type  string            `json:"type"`
	Files map[string]string `json:"files"`
}

type generateProjectRequest struct {
	Name        string         `json:"name"`
	Prompt      string         `json:"prompt"`
	ProjectType string         `json:"projectType"`
	Model       string         `json:"model"`
	APIKeys     apiKeysRequest `json:"apiKeys"`
}

type updateProjectRequest struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}

type updateFilesRequest struct {
	Files map[string]string `json:"files"`
}

type setCurrentRequest struct {
	ProjectID string `json:"projectId"`
}

type subscriptionRequest struct {
	Subscription string `json:"subscription"`
}

type keyStatusResponse struct {
	Gemini    bool `json:"gemini"`
	OpenAI    bool `json:"openai"`
	Anthropic bool `json:"anthropic"`
}

type workspaceResponse struct {
	model.Snapshot
	APIKeys keyStatusResponse `json:"apiKeys"`
}

type generatedProjectResponse struct {
	Project *model.Project `json:"project"`
	Source  string         `json:"source"`
}

// GetState はアプリケーション状態全体を返す。APIキーは設定有無のみ含める。
// GET /api/workspace
func (h *WorkspaceHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workspaceResponse{
		Snapshot: h.store.Snapshot(),
		APIKeys:  toKeyStatusResponse(h.store.KeyStatus()),
	})
}

// Login はモックログインを行う。
// POST /api/workspace/login
func (h *WorkspaceHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.store.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Register はモックのユーザー登録を行う。
// POST /api/workspace/register
func (h *WorkspaceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.store.Register(req.Email, req.Password, req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Logout はユーザー情報をクリアする。
// POST /api/workspace/logout
func (h *WorkspaceHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Logout(); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSubscription はサブスクリプション種別を変更する。
// PUT /api/workspace/subscription
func (h *WorkspaceHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.store.UpdateSubscription(model.SubscriptionTier(strings.ToLower(strings.TrimSpace(req.Subscription))))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// CreateProject はプロジェクトを追加する。filesを省略すると最小構成のファイルを用意する。
// POST /api/workspace/projects
func (h *WorkspaceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	project, err := h.store.CreateProject(req.Name, req.Type, req.Files)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GenerateProject はプロンプトからアプリを生成し、新しいプロジェクトとして保存する。
// POST /api/workspace/projects/generate
func (h *WorkspaceHandler) GenerateProject(w http.ResponseWriter, r *http.Request) {
	var req generateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.generator.GenerateApp(r.Context(), generation.AppRequest{
		Prompt:      req.Prompt,
		ProjectType: req.ProjectType,
		Model:       req.Model,
		Keys:        mergeKeys(req.APIKeys.toModel(), h.store.APIKeys()),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = projectNameFromPrompt(req.Prompt)
	}
	project, err := h.store.CreateProject(name, req.ProjectType, res.Files)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, generatedProjectResponse{Project: project, Source: res.Source})
}

// UpdateProject はプロジェクトの名前や種別を変更する。
// PATCH /api/workspace/projects/{id}
func (h *WorkspaceHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	project, err := h.store.UpdateProject(chi.URLParam(r, "id"), workspace.ProjectUpdate{Name: req.Name, Type: req.Type})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// UpdateProjectFiles はプロジェクトのファイルを置き換える。
// PUT /api/workspace/projects/{id}/files
func (h *WorkspaceHandler) UpdateProjectFiles(w http.ResponseWriter, r *http.Request) {
	var req updateFilesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Files == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("files is required"))
		return
	}
	project, err := h.store.UpdateProjectFiles(chi.URLParam(r, "id"), req.Files)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject はプロジェクトを削除する。
// DELETE /api/workspace/projects/{id}
func (h *WorkspaceHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentProject は選択中のプロジェクトを返す。未選択の場合はprojectがnull。
// GET /api/workspace/current
func (h *WorkspaceHandler) GetCurrentProject(w http.ResponseWriter, r *http.Request) {
	project := h.store.CurrentProject()
	id := ""
	if project != nil {
		id = project.ID
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentProjectId": id,
		"project":          project,
	})
}

// SetCurrentProject は選択中のプロジェクトを変更する。空のprojectIdは選択を解除する。
// PUT /api/workspace/current
func (h *WorkspaceHandler) SetCurrentProject(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	project, err := h.store.SetCurrentProject(strings.TrimSpace(req.ProjectID))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentProjectId": strings.TrimSpace(req.ProjectID),
		"project":          project,
	})
}

// GetAPIKeys はAPIキーの設定有無を返す。キーの値は返さない。
// GET /api/workspace/api-keys
func (h *WorkspaceHandler) GetAPIKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toKeyStatusResponse(h.store.KeyStatus()))
}

// SaveAPIKeys はAPIキーを丸ごと置き換えて保存する。
// PUT /api/workspace/api-keys
func (h *WorkspaceHandler) SaveAPIKeys(w http.ResponseWriter, r *http.Request) {
	var req apiKeysRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.store.SaveAPIKeys(req.toModel()); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toKeyStatusResponse(h.store.KeyStatus()))
}

func toKeyStatusResponse(s workspace.KeyStatus) keyStatusResponse {
	return keyStatusResponse{Gemini: s.Gemini, OpenAI: s.OpenAI, Anthropic: s.Anthropic}
}

// projectNameFromPrompt はプロンプトの1行目からプロジェクト名を作る。
func projectNameFromPrompt(prompt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	line = strings.TrimSpace(line)
	if runes := []rune(line); len(runes) > maxGeneratedNameRunes {
		line = strings.TrimSpace(string(runes[:maxGeneratedNameRunes]))
	}
	if line == "" {
		return "Untitled Project"
	}
	return line
}
