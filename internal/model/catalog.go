package model

import "time"

// ProjectRecord はモックCRUDエンドポイントで扱うプロジェクトレコード。
// ワークスペースのProjectとは異なり、ファイル内容を持たない。
type ProjectRecord struct {
	ID          string
	Name        string
	ProjectType string
	Status      string
	CreatedAt   time.Time
}

// ServerRecord はモックのサーバーレコード。
type ServerRecord struct {
	ID         string
	Provider   string
	ServerType string
	Status     string
	CreatedAt  time.Time
}

// ProjectStatusCreated は新規作成されたプロジェクトレコードのステータス。
const ProjectStatusCreated = "Created"
