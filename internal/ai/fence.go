package ai

import "strings"

// knownFences はレスポンス先頭で除去するコードフェンス。
var knownFences = []string{"```tsx", "```typescript", "```javascript"}

// StripCodeFence はレスポンスが既知のコードフェンスで始まる場合に、
// 開始行と末尾の```を除去して前後の空白を取り除く。
// それ以外のテキストは前後の空白のみ取り除く。
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, fence := range knownFences {
		if !strings.HasPrefix(trimmed, fence) {
			continue
		}
		rest := trimmed[len(fence):]
		// ```tsxx のような別の言語タグは対象外
		if rest != "" && rest[0] != '\n' && rest[0] != '\r' && rest[0] != ' ' {
			continue
		}
		rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
		return strings.TrimSpace(rest)
	}
	return trimmed
}
