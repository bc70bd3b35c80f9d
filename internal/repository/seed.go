package repository

import (
	"time"

	"github.com/hitoshi/altaimate/internal/model"
)

// SeedProjectRecords はメモリストアの初期プロジェクトレコード。
// PostgreSQLでは同じ内容をマイグレーションで投入する。
func SeedProjectRecords() []model.ProjectRecord {
	return []model.ProjectRecord{
		{ID: "1", Name: "Sample Web App", ProjectType: "web", Status: "Active", CreatedAt: date(2024, 1, 1)},
		{ID: "2", Name: "Mobile App Demo", ProjectType: "mobile", Status: "In Development", CreatedAt: date(2024, 1, 2)},
	}
}

// SeedServerRecords はサーバーレコードの固定データ。
func SeedServerRecords() []model.ServerRecord {
	return []model.ServerRecord{
		{ID: "1", Provider: "AWS", ServerType: "t3.micro", Status: "Running", CreatedAt: date(2024, 1, 1)},
		{ID: "2", Provider: "DigitalOcean", ServerType: "Basic", Status: "Provisioning", CreatedAt: date(2024, 1, 3)},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
