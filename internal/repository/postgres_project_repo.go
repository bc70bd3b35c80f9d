package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/altaimate/internal/model"
)

// PostgresProjectRecordRepo はPostgreSQLを使用したプロジェクトレコードリポジトリ。
type PostgresProjectRecordRepo struct {
	db *sql.DB
}

// NewPostgresProjectRecordRepo はPostgresProjectRecordRepoを生成する。
func NewPostgresProjectRecordRepo(db *sql.DB) *PostgresProjectRecordRepo {
	return &PostgresProjectRecordRepo{db: db}
}

// List は作成日時の昇順で全レコードを取得する。
func (r *PostgresProjectRecordRepo) List(ctx context.Context) ([]model.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, project_type, status, created_at
		 FROM catalog_projects
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list project records: %w", err)
	}
	defer rows.Close()

	var records []model.ProjectRecord
	for rows.Next() {
		var rec model.ProjectRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ProjectType, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project records: %w", err)
	}

	return records, nil
}

// FindByID は指定IDのレコードを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRecordRepo) FindByID(ctx context.Context, id string) (*model.ProjectRecord, error) {
	rec := &model.ProjectRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, project_type, status, created_at FROM catalog_projects WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.ProjectType, &rec.Status, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project record by ID: %w", err)
	}

	return rec, nil
}

// Create はレコードを追加する。
func (r *PostgresProjectRecordRepo) Create(ctx context.Context, record *model.ProjectRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_projects (id, name, project_type, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Name, record.ProjectType, record.Status, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project record: %w", err)
	}
	return nil
}
