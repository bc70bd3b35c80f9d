// Package repository はカタログレコードの永続化インターフェースと実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/altaimate/internal/model"
)

// ProjectRecordRepository はカタログのプロジェクトレコードの永続化インターフェース。
type ProjectRecordRepository interface {
	// List は作成日時の昇順で全レコードを取得する。
	List(ctx context.Context) ([]model.ProjectRecord, error)

	// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.ProjectRecord, error)

	// Create はレコードを追加する。
	Create(ctx context.Context, record *model.ProjectRecord) error
}

// ServerRecordRepository はカタログのサーバーレコードの読み取りインターフェース。
type ServerRecordRepository interface {
	// List は全レコードを取得する。
	List(ctx context.Context) ([]model.ServerRecord, error)
}
