package language_service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/i18nav/config"
	"github.com/meysamhadeli/i18nav/json_resource"
	json_resource_contracts "github.com/meysamhadeli/i18nav/json_resource/contracts"
	"github.com/meysamhadeli/i18nav/namespace_router"
	"github.com/meysamhadeli/i18nav/translation_key"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("i18nav.plugin")

// ErrNoRoute means no configured route owns the key's namespace.
var ErrNoRoute = errors.New("no resource configured for namespace")

// Match is a translation key in a source file together with its resource entry.
type Match struct {
	FileName string
	Key      translation_key.KeyCapture
	Entry    json_resource.Entry
}

// Plugin resolves translation keys under the cursor to resource entries.
type Plugin struct {
	resolver *translation_key.Resolver
	router   *namespace_router.Router
	loader   json_resource_contracts.IDocumentLoader
	cache    *json_resource.CacheManager
	disabled error
}

type Option func(*Plugin)

// WithLoader replaces the resource loader.
func WithLoader(loader json_resource_contracts.IDocumentLoader) Option {
	return func(p *Plugin) {
		p.loader = loader
	}
}

// WithResolver shares an already compiled source resolver.
func WithResolver(resolver *translation_key.Resolver) Option {
	return func(p *Plugin) {
		p.resolver = resolver
	}
}

// New builds the plugin. An invalid configuration does not fail: the plugin
// logs the reason once and answers every request with the host default.
func New(cfg *config.Config, opts ...Option) (*Plugin, error) {
	log.Info("loaded plugin: i18nav")

	plugin := &Plugin{}
	for _, opt := range opts {
		opt(plugin)
	}

	if plugin.resolver == nil {
		resolver, err := translation_key.NewResolver()
		if err != nil {
			return nil, err
		}
		plugin.resolver = resolver
	}

	if err := config.Validate(cfg); err != nil {
		log.Warningf("translation lookup disabled: %s", err)
		plugin.disabled = err
		return plugin, nil
	}

	plugin.router = namespace_router.NewRouter(cfg.BaseURL, cfg.JSONFilePaths)
	for _, route := range cfg.JSONFilePaths {
		log.Infof("using resource %s for namespace %q", filepath.Join(cfg.BaseURL, route.Path), route.Namespace)
	}

	if plugin.loader == nil {
		var loaderOpts []json_resource.LoaderOption
		if cfg.EnableCache {
			cache, err := json_resource.NewCacheManager()
			if err != nil {
				log.Warningf("resource cache unavailable: %s", err)
			} else {
				plugin.cache = cache
				loaderOpts = append(loaderOpts, json_resource.WithCache(cache))
			}
		}
		plugin.loader = json_resource.NewLoader(loaderOpts...)
	}

	return plugin, nil
}

// Disabled returns a plugin that answers every request with the host default.
func Disabled(reason error) *Plugin {
	return &Plugin{disabled: reason}
}

// Enabled reports whether the configuration was valid.
func (p *Plugin) Enabled() bool {
	return p.disabled == nil
}

// DisabledReason returns why the plugin is disabled, or nil.
func (p *Plugin) DisabledReason() error {
	return p.disabled
}

// CacheStats returns resource cache statistics, or nil when caching is off.
func (p *Plugin) CacheStats() *json_resource.CacheStats {
	if p.cache == nil {
		return nil
	}
	stats := p.cache.Stats()
	return &stats
}

// Close releases the resource cache.
func (p *Plugin) Close() error {
	if p.cache == nil {
		return nil
	}
	log.Debugf("resource cache: %s", p.cache.Stats())
	return p.cache.Close()
}

// Lookup finds the translation for the key literal at offset in source.
// Every miss returns nil; the reason is only logged.
func (p *Plugin) Lookup(ctx context.Context, fileName string, source []byte, offset int) *Match {
	if !p.Enabled() {
		return nil
	}

	capture, err := p.resolver.KeyAtPosition(ctx, source, offset)
	if err != nil {
		log.Errorf("cannot parse %s: %s", fileName, err)
		return nil
	}
	if capture == nil {
		return nil
	}
	log.Infof("found translationKey: %s", capture.Key)

	entry, err := p.LookupKey(ctx, capture.Key)
	if err != nil {
		if errors.Is(err, json_resource.ErrUnreadable) || errors.Is(err, json_resource.ErrInvalidResource) {
			log.Warningf("failed to load resource: %s", err)
		} else {
			log.Infof("%s", err)
		}
		return nil
	}
	log.Infof("found translation: %s", entry.Value)

	return &Match{
		FileName: fileName,
		Key:      *capture,
		Entry:    *entry,
	}
}

// LookupKey resolves a key straight to its resource entry. Unlike Lookup it
// reports why the key has no translation.
func (p *Plugin) LookupKey(ctx context.Context, key string) (*json_resource.Entry, error) {
	if !p.Enabled() {
		return nil, p.disabled
	}

	path, ok := p.router.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoRoute, namespace_router.Namespace(key))
	}

	document, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	defer document.Close()

	return lookupEntry(document, key)
}

// lookupEntry tries the whole key first, then the key without its namespace
// for resource files that are not nested under the namespace.
func lookupEntry(document json_resource.Document, key string) (*json_resource.Entry, error) {
	entry, err := document.Lookup(key)
	if err == nil || !errors.Is(err, json_resource.ErrKeyNotFound) {
		return entry, err
	}

	_, rest, found := strings.Cut(key, ".")
	if !found || rest == "" {
		return nil, err
	}

	entry, restErr := document.Lookup(rest)
	if errors.Is(restErr, json_resource.ErrKeyNotFound) {
		return nil, err
	}
	if restErr != nil {
		return nil, restErr
	}
	entry.Key = key
	return entry, nil
}
