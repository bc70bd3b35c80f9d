// Package catalog はモックのプロジェクト・サーバー一覧のユースケースを提供する。
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/repository"
	"github.com/hitoshi/altaimate/internal/security"
)

// 入力の最大文字数
const (
	maxNameRunes        = 100
	maxProjectTypeRunes = 50
)

// Service はカタログのユースケースを提供する。
type Service struct {
	projects  repository.ProjectRecordRepository
	servers   repository.ServerRecordRepository
	sanitizer security.TextSanitizerService
	now       func() time.Time
	newID     func() string
}

// NewService はServiceを生成する。
func NewService(projects repository.ProjectRecordRepository, servers repository.ServerRecordRepository, sanitizer security.TextSanitizerService) *Service {
	return &Service{
		projects:  projects,
		servers:   servers,
		sanitizer: sanitizer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateProject はnameとprojectTypeを検証してレコードを作成する。
// どちらかが空(HTML除去後を含む)の場合は何も作成せずVALIDATION_ERRORを返す。
func (s *Service) CreateProject(ctx context.Context, name, projectType string) (*model.ProjectRecord, error) {
	name = s.sanitizer.Sanitize(name, maxNameRunes)
	projectType = s.sanitizer.Sanitize(projectType, maxProjectTypeRunes)
	if name == "" || projectType == "" {
		return nil, model.NewValidationError("Missing required fields: name and projectType")
	}

	rec := &model.ProjectRecord{
		ID:          s.newID(),
		Name:        name,
		ProjectType: strings.ToLower(projectType),
		Status:      model.ProjectStatusCreated,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.projects.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create project record: %w", err)
	}
	return rec, nil
}

// ListProjects はプロジェクトレコードの一覧を返す。
func (s *Service) ListProjects(ctx context.Context) ([]model.ProjectRecord, error) {
	records, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list project records: %w", err)
	}
	return records, nil
}

// GetProject は指定IDのプロジェクトレコードを返す。存在しない場合はPROJECT_NOT_FOUNDを返す。
func (s *Service) GetProject(ctx context.Context, id string) (*model.ProjectRecord, error) {
	rec, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find project record: %w", err)
	}
	if rec == nil {
		return nil, model.NewProjectNotFoundError(id)
	}
	return rec, nil
}

// ListServers はサーバーレコードの一覧を返す。
func (s *Service) ListServers(ctx context.Context) ([]model.ServerRecord, error) {
	records, err := s.servers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list server records: %w", err)
	}
	return records, nil
}
