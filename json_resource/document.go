package json_resource

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrUnreadable means the resource file is missing, unreadable or empty.
	ErrUnreadable = errors.New("resource file unreadable")
	// ErrInvalidResource means the resource file is not valid JSON (or YAML).
	ErrInvalidResource = errors.New("invalid resource file")
	// ErrKeyNotFound means no property matches the key path anywhere in the document.
	ErrKeyNotFound = errors.New("translation key not found")
	// ErrUnsupportedValue means the key resolved to an object or array instead of a translation.
	ErrUnsupportedValue = errors.New("translation value is not a scalar")
)

// Entry is a resolved translation inside a resource file.
type Entry struct {
	ResourcePath string
	Key          string

	// Start and Length locate the value token in the resource file, quotes included.
	Start  int
	Length int

	// Value is the decoded translation text; Raw is the token exactly as written.
	Value string
	Raw   string

	// PropertyStart and PropertyEnd span the whole owning property (key, separator and value).
	PropertyStart int
	PropertyEnd   int

	// Source is the resource text the offsets refer to.
	Source []byte
}

// End returns the byte offset just past the value token.
func (e *Entry) End() int {
	return e.Start + e.Length
}

// Document is a parsed resource file that can be searched by dotted key path.
// Documents are never mutated by lookups.
type Document interface {
	Path() string
	Source() []byte
	Lookup(key string) (*Entry, error)
	Close()
}

// Parse picks the parser for path by extension: YAML for .yaml/.yml, JSON otherwise.
func Parse(ctx context.Context, path string, source []byte) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, source)
	default:
		return ParseJSON(ctx, path, source)
	}
}

// SplitKey splits a dotted translation key into its segments.
func SplitKey(key string) []string {
	return strings.Split(key, ".")
}
