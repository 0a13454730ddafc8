package utils

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "dracula"

// Highlight renders code for a 256-color terminal. Unknown languages and
// themes fall back to chroma's defaults; on failure the plain code is returned.
func Highlight(code string, language string, theme string) string {
	if theme == "" {
		theme = DefaultTheme
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, language, "terminal256", theme); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// LanguageOf maps a resource file to its chroma lexer name.
func LanguageOf(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return "yaml"
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".jsonc"):
		return "json"
	case strings.HasSuffix(lower, ".tsx"), strings.HasSuffix(lower, ".jsx"):
		return "tsx"
	default:
		return GetSupportedLanguage(path)
	}
}
