package security

import "crypto/subtle"

// SecretEqual は2つのシークレットを定数時間で比較する。
// どちらかが空の場合は常にfalseを返す。
func SecretEqual(given, expected string) bool {
	if given == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
