package namespace_router

import (
	"path/filepath"
	"strings"
)

// Route maps a namespace (the first segment of a translation key) to a resource file.
type Route struct {
	Path      string `mapstructure:"path" json:"path" yaml:"path" validate:"required"`
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace" validate:"required"`
}

// Router picks the resource file for a translation key. It is read-only after construction.
type Router struct {
	basePath string
	routes   []Route
}

func NewRouter(basePath string, routes []Route) *Router {
	return &Router{
		basePath: basePath,
		routes:   append([]Route(nil), routes...),
	}
}

// Namespace returns the text before the first ".", or the whole key when there is none.
func Namespace(key string) string {
	namespace, _, _ := strings.Cut(key, ".")
	return namespace
}

// Resolve returns basePath joined with the path of the first route whose namespace
// equals the key's namespace.
func (r *Router) Resolve(key string) (string, bool) {
	namespace := Namespace(key)
	for _, route := range r.routes {
		if route.Namespace == namespace {
			return filepath.Join(r.basePath, route.Path), true
		}
	}
	return "", false
}

func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

func (r *Router) BasePath() string {
	return r.basePath
}
