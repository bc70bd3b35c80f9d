package middleware

import (
	"net"
	"net/http"
)

// ClientAddr はリクエスト元のIPアドレスを返す。
// プロキシヘッダーはNewTrustedRealIPMiddlewareが信頼するプロキシ経由の場合にのみ反映される。
func ClientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
