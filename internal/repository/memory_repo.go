package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/altaimate/internal/model"
)

// MemoryProjectRecordRepo はプロセス内メモリのプロジェクトレコードリポジトリ。
// プロセス終了時に内容は失われる。
type MemoryProjectRecordRepo struct {
	mu      sync.RWMutex
	records []model.ProjectRecord
}

// NewMemoryProjectRecordRepo は初期レコードを持つMemoryProjectRecordRepoを生成する。
func NewMemoryProjectRecordRepo(seed []model.ProjectRecord) *MemoryProjectRecordRepo {
	records := make([]model.ProjectRecord, len(seed))
	copy(records, seed)
	return &MemoryProjectRecordRepo{records: records}
}

// List は追加順で全レコードを返す。
func (r *MemoryProjectRecordRepo) List(_ context.Context) ([]model.ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ProjectRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// FindByID は指定IDのレコードを返す。見つからない場合はnilを返す。
func (r *MemoryProjectRecordRepo) FindByID(_ context.Context, id string) (*model.ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.ID == id {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

// Create はレコードを末尾に追加する。
func (r *MemoryProjectRecordRepo) Create(_ context.Context, record *model.ProjectRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

// StaticServerRecordRepo は固定のサーバーレコードを返すリポジトリ。
type StaticServerRecordRepo struct {
	records []model.ServerRecord
}

// NewStaticServerRecordRepo はStaticServerRecordRepoを生成する。
func NewStaticServerRecordRepo(records []model.ServerRecord) *StaticServerRecordRepo {
	return &StaticServerRecordRepo{records: records}
}

// List は全レコードのコピーを返す。
func (r *StaticServerRecordRepo) List(_ context.Context) ([]model.ServerRecord, error) {
	out := make([]model.ServerRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}
