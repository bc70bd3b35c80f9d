package model

import (
	"sort"
	"strings"
)

// ValidFilePath はプロジェクトファイルのキーが相対パスかどうかを返す。
// 空文字、先頭の/、\を含むパス、..セグメントを含むパスは不正とする。
func ValidFilePath(p string) bool {
	if strings.TrimSpace(p) == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "" {
			return false
		}
	}
	return true
}

// ValidateFiles は全キーが相対パスであることを検証する。
// 不正なパスが複数ある場合は辞書順で最初のパスのエラーを返す。
func ValidateFiles(files map[string]string) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if !ValidFilePath(p) {
			return NewInvalidFilePathError(p)
		}
	}
	return nil
}
