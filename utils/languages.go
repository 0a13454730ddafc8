package utils

import (
	"path/filepath"
	"strings"
)

// GetSupportedLanguage returns the language of a source file that can carry
// translation keys, or "" for anything else.
func GetSupportedLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".ts", ".mts", ".cts":
		return "typescript"
	case ".jsx", ".js", ".mjs", ".cjs":
		return "javascript"
	default:
		return ""
	}
}
