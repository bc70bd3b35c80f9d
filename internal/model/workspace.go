package model

import "time"

// SubscriptionTier はユーザーのサブスクリプション種別。
type SubscriptionTier string

const (
	SubscriptionFree       SubscriptionTier = "free"
	SubscriptionPro        SubscriptionTier = "pro"
	SubscriptionEnterprise SubscriptionTier = "enterprise"
)

// Valid は定義済みの種別かどうかを返す。
func (t SubscriptionTier) Valid() bool {
	switch t {
	case SubscriptionFree, SubscriptionPro, SubscriptionEnterprise:
		return true
	}
	return false
}

// User はモックログインで生成されるユーザー。
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Subscription SubscriptionTier `json:"subscription"`
}

// Project はワークスペース内のプロジェクト。
// Filesのキーは相対パス、値はファイル内容全体。
type Project struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Files        map[string]string `json:"files"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastModified time.Time         `json:"lastModified"`
}

// APIKeySet はプロバイダごとのAPIキー。
type APIKeySet struct {
	Gemini    string `json:"gemini,omitempty"`
	OpenAI    string `json:"openai,omitempty"`
	Anthropic string `json:"anthropic,omitempty"`
}

// Snapshot はアプリケーション状態全体。1つのJSONドキュメントとして保存される。
// CurrentProjectIDが空でない場合、Projectsに同じIDのプロジェクトが存在する。
type Snapshot struct {
	Version          int       `json:"version"`
	User             *User     `json:"user"`
	IsAuthenticated  bool      `json:"isAuthenticated"`
	Projects         []Project `json:"projects"`
	CurrentProjectID string    `json:"currentProjectId,omitempty"`
}

// SnapshotVersion は現在のスナップショット形式のバージョン。
const SnapshotVersion = 1
