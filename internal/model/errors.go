// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, provider, workspace, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeUnsupportedModel    = "UNSUPPORTED_MODEL"
	ErrCodeAPIKeyRequired      = "API_KEY_REQUIRED"
	ErrCodeProviderError       = "PROVIDER_ERROR"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeProjectNotFound     = "PROJECT_NOT_FOUND"
	ErrCodeInvalidFilePath     = "INVALID_FILE_PATH"
	ErrCodeInvalidSubscription = "INVALID_SUBSCRIPTION"
	ErrCodeStorageFailed       = "STORAGE_FAILED"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewValidationError は必須フィールド欠落などの入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "Fill in the required fields and try again.",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Invalid JSON in request body",
		Category: "validation",
		Action:   "Send the request body as valid JSON.",
	}
}

// NewUnsupportedModelError はプロバイダを特定できないモデル名のエラーを生成する。
func NewUnsupportedModelError(modelID string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedModel,
		Message:  "Unsupported model type",
		Category: "validation",
		Action:   fmt.Sprintf("Choose a model starting with gemini, gpt or claude (got %q).", modelID),
	}
}

// NewAPIKeyRequiredError はプロバイダのAPIキーが見つからない場合のエラーを生成する。
func NewAPIKeyRequiredError(providerName string) *APIError {
	return &APIError{
		Code:     ErrCodeAPIKeyRequired,
		Message:  fmt.Sprintf("%s API key is required", providerName),
		Category: "validation",
		Action:   "Add an API key for this provider in Settings or configure it on the server.",
	}
}

// NewProviderError は外部プロバイダ呼び出しの失敗エラーを生成する。
// 上流のエラーメッセージをそのまま含める。
func NewProviderError(providerName, upstreamMessage string) *APIError {
	return &APIError{
		Code:     ErrCodeProviderError,
		Message:  fmt.Sprintf("%s request failed: %s", providerName, upstreamMessage),
		Category: "provider",
		Action:   "Check the API key and try again later.",
	}
}

// NewUnauthorizedError は内部シークレットヘッダー不一致のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Missing or invalid internal secret",
		Category: "auth",
		Action:   "Call this endpoint through the dashboard client.",
	}
}

// NewInvalidCredentialsError はモックログインの入力不足エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Email and password are required",
		Category: "auth",
		Action:   "Enter both email and password.",
	}
}

// NewProjectNotFoundError はワークスペースにプロジェクトが存在しない場合のエラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("Project not found: %s", projectID),
		Category: "workspace",
		Action:   "Reload the project list.",
	}
}

// NewInvalidFilePathError はプロジェクトファイルのパスが相対パスでない場合のエラーを生成する。
func NewInvalidFilePathError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidFilePath,
		Message:  fmt.Sprintf("Invalid file path: %q", path),
		Category: "validation",
		Action:   "Use relative paths such as src/App.tsx.",
	}
}

// NewInvalidSubscriptionError は未知のサブスクリプション種別のエラーを生成する。
func NewInvalidSubscriptionError(tier string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSubscription,
		Message:  fmt.Sprintf("Invalid subscription tier: %q", tier),
		Category: "validation",
		Action:   "Use one of free, pro or enterprise.",
	}
}

// NewStorageFailedError は状態スナップショットの保存失敗エラーを生成する。
func NewStorageFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeStorageFailed,
		Message:  "Failed to save application state",
		Category: "workspace",
		Action:   "Your last change may be lost. Try again.",
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Wait for the time given in Retry-After and retry.",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Try again after a while.",
	}
}
