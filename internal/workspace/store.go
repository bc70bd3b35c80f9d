// Package workspace はアプリケーション状態(ユーザー、プロジェクト、選択中のプロジェクト)を
// JSONファイルに永続化するストアを提供する。APIキーは別ファイルに保存する。
package workspace

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/scaffold"
)

// ファイルのパーミッション
const (
	statePerm = 0o644
	keysPerm  = 0o600
)

// ProjectUpdate はプロジェクトの部分更新。nilのフィールドは変更しない。
type ProjectUpdate struct {
	Name *string
	Type *string
}

// KeyStatus はAPIキーの設定有無。キーの値そのものは含めない。
type KeyStatus struct {
	Gemini    bool
	OpenAI    bool
	Anthropic bool
}

// Store はアプリケーション状態のストア。
// すべての変更は状態全体をファイルに書き出してから反映する。
type Store struct {
	mu        sync.Mutex
	statePath string
	keysPath  string
	state     model.Snapshot
	keys      model.APIKeySet
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Open はファイルから状態を読み込んでStoreを生成する。
// 読み込みに失敗した場合はエラーを記録して空の状態から始める。
func Open(statePath, keysPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		statePath: statePath,
		keysPath:  keysPath,
		state:     emptySnapshot(),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	s.load()
	return s
}

func emptySnapshot() model.Snapshot {
	return model.Snapshot{Version: model.SnapshotVersion, Projects: []model.Project{}}
}

func (s *Store) load() {
	var snap model.Snapshot
	found, err := readJSON(s.statePath, &snap)
	switch {
	case err != nil:
		s.logger.Error("failed to load app state", slog.String("path", s.statePath), slog.String("error", err.Error()))
	case found:
		if snap.Projects == nil {
			snap.Projects = []model.Project{}
		}
		snap.Version = model.SnapshotVersion
		if snap.CurrentProjectID != "" && indexOf(snap.Projects, snap.CurrentProjectID) < 0 {
			s.logger.Warn("clearing dangling current project", slog.String("project_id", snap.CurrentProjectID))
			snap.CurrentProjectID = ""
		}
		s.state = snap
	}

	var keys model.APIKeySet
	found, err = readJSON(s.keysPath, &keys)
	switch {
	case err != nil:
		s.logger.Error("failed to load api keys", slog.String("path", s.keysPath), slog.String("error", err.Error()))
	case found:
		s.keys = keys
	}
}

// Snapshot は現在の状態のコピーを返す。
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.state)
}

// CurrentProject は選択中のプロジェクトを返す。未選択の場合はnil。
func (s *Store) CurrentProject() *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.state.Projects, s.state.CurrentProjectID)
	if i < 0 {
		return nil
	}
	p := cloneProject(s.state.Projects[i])
	return &p
}

// Login はモックログインを行う。資格情報は検証せず、メールアドレスの@より前を名前とする。
func (s *Store) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}
	name, _, _ := strings.Cut(email, "@")
	return s.signIn(email, name)
}

// Register はモックのユーザー登録を行う。nameが空の場合はメールアドレスから導出する。
func (s *Store) Register(email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return s.signIn(email, name)
}

func (s *Store) signIn(email, name string) (*model.User, error) {
	user := &model.User{
		ID:           "user_" + s.newID(),
		Email:        email,
		Name:         name,
		Subscription: model.SubscriptionFree,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSnapshot(s.state)
	next.User = user
	next.IsAuthenticated = true
	if err := s.commit(next); err != nil {
		return nil, err
	}
	u := *user
	return &u, nil
}

// Logout はユーザー情報をクリアする。プロジェクトは残す。
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSnapshot(s.state)
	next.User = nil
	next.IsAuthenticated = false
	return s.commit(next)
}

// UpdateSubscription はログイン中ユーザーのサブスクリプション種別を変更する。
func (s *Store) UpdateSubscription(tier model.SubscriptionTier) (*model.User, error) {
	if !tier.Valid() {
		return nil, model.NewInvalidSubscriptionError(string(tier))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil || !s.state.IsAuthenticated {
		return nil, model.NewUnauthorizedError()
	}
	next := cloneSnapshot(s.state)
	next.User.Subscription = tier
	if err := s.commit(next); err != nil {
		return nil, err
	}
	u := *next.User
	return &u, nil
}

// CreateProject はプロジェクトを追加し、選択中のプロジェクトにする。
// filesがnilの場合は最小構成のファイルを用意する。
func (s *Store) CreateProject(name, projectType string, files map[string]string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewValidationError("Project name is required")
	}
	if files == nil {
		files = scaffold.DefaultFiles(name)
	}
	if err := model.ValidateFiles(files); err != nil {
		return nil, err
	}

	now := s.now()
	project := model.Project{
		ID:           "proj_" + s.newID(),
		Name:         name,
		Type:         projectType,
		Files:        cloneFiles(files),
		CreatedAt:    now,
		LastModified: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSnapshot(s.state)
	next.Projects = append(next.Projects, project)
	next.CurrentProjectID = project.ID
	if err := s.commit(next); err != nil {
		return nil, err
	}
	p := cloneProject(project)
	return &p, nil
}

// UpdateProject はプロジェクトの名前や種別を変更し、最終更新日時を更新する。
func (s *Store) UpdateProject(id string, update ProjectUpdate) (*model.Project, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, model.NewValidationError("Project name must not be empty")
	}
	return s.modifyProject(id, func(p *model.Project) {
		if update.Name != nil {
			p.Name = strings.TrimSpace(*update.Name)
		}
		if update.Type != nil {
			p.Type = *update.Type
		}
	})
}

// UpdateProjectFiles はプロジェクトのファイルを丸ごと置き換える。
func (s *Store) UpdateProjectFiles(id string, files map[string]string) (*model.Project, error) {
	if err := model.ValidateFiles(files); err != nil {
		return nil, err
	}
	replaced := cloneFiles(files)
	return s.modifyProject(id, func(p *model.Project) {
		p.Files = replaced
	})
}

func (s *Store) modifyProject(id string, apply func(p *model.Project)) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.state.Projects, id)
	if i < 0 {
		return nil, model.NewProjectNotFoundError(id)
	}

	next := cloneSnapshot(s.state)
	apply(&next.Projects[i])
	next.Projects[i].LastModified = s.now()
	if err := s.commit(next); err != nil {
		return nil, err
	}
	p := cloneProject(next.Projects[i])
	return &p, nil
}

// DeleteProject はプロジェクトを削除する。選択中のプロジェクトだった場合は選択を解除する。
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.state.Projects, id)
	if i < 0 {
		return model.NewProjectNotFoundError(id)
	}

	next := cloneSnapshot(s.state)
	next.Projects = append(next.Projects[:i], next.Projects[i+1:]...)
	if next.CurrentProjectID == id {
		next.CurrentProjectID = ""
	}
	return s.commit(next)
}

// SetCurrentProject は選択中のプロジェクトを変更する。空文字の場合は選択を解除する。
func (s *Store) SetCurrentProject(id string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneSnapshot(s.state)
	var current *model.Project
	if id != "" {
		i := indexOf(next.Projects, id)
		if i < 0 {
			return nil, model.NewProjectNotFoundError(id)
		}
		p := cloneProject(next.Projects[i])
		current = &p
	}
	next.CurrentProjectID = id
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return current, nil
}

// APIKeys は保存されたAPIキーを返す。
func (s *Store) APIKeys() model.APIKeySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys
}

// KeyStatus はAPIキーの設定有無を返す。
func (s *Store) KeyStatus() KeyStatus {
	keys := s.APIKeys()
	return KeyStatus{
		Gemini:    keys.Gemini != "",
		OpenAI:    keys.OpenAI != "",
		Anthropic: keys.Anthropic != "",
	}
}

// SaveAPIKeys はAPIキーを丸ごと置き換えて保存する。
func (s *Store) SaveAPIKeys(keys model.APIKeySet) error {
	keys = model.APIKeySet{
		Gemini:    strings.TrimSpace(keys.Gemini),
		OpenAI:    strings.TrimSpace(keys.OpenAI),
		Anthropic: strings.TrimSpace(keys.Anthropic),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.keysPath, keys, keysPerm); err != nil {
		s.logger.Error("failed to save api keys", slog.String("path", s.keysPath), slog.String("error", err.Error()))
		return model.NewStorageFailedError()
	}
	s.keys = keys
	return nil
}

// commit は状態を書き出し、成功した場合のみメモリ上の状態を置き換える。
// 呼び出し側でmuを保持していること。
func (s *Store) commit(next model.Snapshot) error {
	next.Version = model.SnapshotVersion
	if err := writeJSON(s.statePath, next, statePerm); err != nil {
		s.logger.Error("failed to save app state", slog.String("path", s.statePath), slog.String("error", err.Error()))
		return model.NewStorageFailedError()
	}
	s.state = next
	return nil
}

func indexOf(projects []model.Project, id string) int {
	if id == "" {
		return -1
	}
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneSnapshot(src model.Snapshot) model.Snapshot {
	dst := src
	if src.User != nil {
		u := *src.User
		dst.User = &u
	}
	dst.Projects = make([]model.Project, len(src.Projects))
	for i, p := range src.Projects {
		dst.Projects[i] = cloneProject(p)
	}
	return dst
}

func cloneProject(p model.Project) model.Project {
	p.Files = cloneFiles(p.Files)
	return p
}

func cloneFiles(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for k, v := range files {
		out[k] = v
	}
	return out
}
