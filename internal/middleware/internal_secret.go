package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/altaimate/internal/model"
	"github.com/hitoshi/altaimate/internal/security"
)

// NewInternalSecretMiddleware はX-Internal-Secretヘッダーを検証するミドルウェアを返す。
// ヘッダーが欠落または不一致の場合は401 UNAUTHORIZEDを返し、後続を呼ばない。
func NewInternalSecretMiddleware(secret string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !security.SecretEqual(r.Header.Get(InternalSecretHeader), secret) {
				logger.Warn("internal secret rejected",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("client", ClientAddr(r)),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
