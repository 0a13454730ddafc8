package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// IgnoreFileName lists extra patterns, one per line, that the project scan skips.
const IgnoreFileName = ".i18nav-ignore"

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// GetIgnorePatterns reads the patterns from the project's .i18nav-ignore file.
// A missing file yields an empty list. Patterns are cached until the file's mtime changes.
func GetIgnorePatterns(cwd string) ([]string, error) {
	ignorePath := filepath.Join(cwd, IgnoreFileName)

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// IsDefaultIgnored reports whether any segment of a slash separated relative path is a
// directory or file kind that never holds translated source.
func IsDefaultIgnored(path string) bool {
	ignorePatterns := []string{
		".git",
		".svn",
		".idea",
		".vscode",
		".cache",
		".next",
		".turbo",
		"node_modules",
		"dist",
		"build",
		"out",
		"coverage",
		"storybook-static",
		"*.min.js",
		"*.d.ts",
		"*.map",
	}

	for _, part := range strings.Split(path, "/") {
		part = strings.ToLower(part)
		for _, pattern := range ignorePatterns {
			if strings.HasPrefix(pattern, "*") {
				if strings.HasSuffix(part, strings.TrimPrefix(pattern, "*")) {
					return true
				}
			} else if part == pattern {
				return true
			}
		}
	}
	return false
}

// readIgnoreFile returns the non-empty, non-comment lines of an ignore file.
func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks a slash separated relative path against ignore patterns. A pattern
// ending in "/" ignores the whole directory; other patterns are globs matched against
// the full path and against the base name.
func IsIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(path+"/", pattern) {
				return true
			}
			continue
		}
		if match, _ := filepath.Match(pattern, path); match {
			return true
		}
		if match, _ := filepath.Match(pattern, filepath.Base(path)); match {
			return true
		}
	}
	return false
}

// ClearIgnoreCache drops all cached ignore patterns.
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}
