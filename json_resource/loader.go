package json_resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
)

var loaderLog = commonlog.GetLogger("i18nav.resource")

// Loader reads and parses resource files. Without a cache every Load sees the
// file's current text.
type Loader struct {
	cache *CacheManager
}

type LoaderOption func(*Loader)

// WithCache makes the loader reuse parsed documents until their file changes.
func WithCache(cache *CacheManager) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load returns the parsed resource at path. Missing, unreadable or empty files
// return ErrUnreadable; syntax errors return ErrInvalidResource.
func (l *Loader) Load(ctx context.Context, path string) (Document, error) {
	path = filepath.Clean(path)

	if l.cache != nil {
		if document, ok := l.cache.Get(path); ok {
			loaderLog.Debugf("cache hit: %s", path)
			return document, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnreadable, path)
	}

	document, err := Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Set(path, content, document); err != nil {
			loaderLog.Warningf("cannot cache %s: %s", path, err)
		}
	}

	return document, nil
}

// Cache returns the loader's cache, or nil when caching is off.
func (l *Loader) Cache() *CacheManager {
	return l.cache
}
