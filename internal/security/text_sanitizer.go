// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザー入力からHTMLを取り除き、プレーンテキストとして保存できる形にする。
// bluemondayのStrictPolicyを使用し、すべてのタグと属性を除去する。
package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキスト化のインターフェースを定義する。
type TextSanitizerService interface {
	// Sanitize はHTMLタグを除去し、連続する空白を1つにまとめ、maxRunes文字に切り詰める。
	// maxRunesが0以下の場合は切り詰めない。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string, maxRunes int) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// maxDecodePasses はエンティティの多重エスケープを展開する回数の上限。
const maxDecodePasses = 8

// Sanitize はHTMLを除去したプレーンテキストを返す。
// StrictPolicyはエスケープ済みの文字列を返すため、エンティティを元の文字に戻す。
// 戻した結果にタグが現れる場合があるので、出力が変化しなくなるまで繰り返す。
func (s *textSanitizer) Sanitize(raw string, maxRunes int) string {
	text := collapseSpaces(raw)
	converged := false
	for i := 0; i < maxDecodePasses; i++ {
		next := s.strip(text)
		if next == text {
			converged = true
			break
		}
		text = next
	}
	if !converged {
		// 展開しきれない入力はエスケープしたまま返し、タグを復元しない
		text = collapseSpaces(s.policy.Sanitize(text))
	}

	if maxRunes > 0 && utf8.RuneCountInString(text) > maxRunes {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:maxRunes]))
	}
	return text
}

// strip はタグを1回除去し、エンティティを1段だけ戻す。
func (s *textSanitizer) strip(text string) string {
	return collapseSpaces(html.UnescapeString(s.policy.Sanitize(text)))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
