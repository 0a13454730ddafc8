package lsp

import (
	"context"
	"sync"

	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("i18nav.lsp")

// ConfigureFunc builds a plugin for the workspace root and the editor's
// initializationOptions.
type ConfigureFunc func(root string, options any) (*language_service.Plugin, error)

type pluginHolder struct {
	mu     sync.RWMutex
	plugin *language_service.Plugin
}

func (h *pluginHolder) get() *language_service.Plugin {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.plugin
}

func (h *pluginHolder) set(plugin *language_service.Plugin) {
	h.mu.Lock()
	old := h.plugin
	h.plugin = plugin
	h.mu.Unlock()

	if old != nil && old != plugin {
		_ = old.Close()
	}
}

func (h *pluginHolder) close() {
	h.set(nil)
}

// reconfigure rebuilds the plugin on initialize. A workspace that cannot be
// configured gets a disabled plugin.
func (h *pluginHolder) reconfigure(configure ConfigureFunc, params *protocol.InitializeParams) {
	if configure == nil || params == nil {
		return
	}

	root := ""
	if params.RootURI != nil {
		root, _ = URIToPath(*params.RootURI)
	}
	if root == "" && params.RootPath != nil {
		root = *params.RootPath
	}

	plugin, err := configure(root, params.InitializationOptions)
	if err != nil {
		log.Warningf("translation lookup disabled for workspace %q: %s", root, err)
		plugin = language_service.Disabled(err)
	}
	h.set(plugin)
}

func lookupAt(ctx context.Context, plugin *language_service.Plugin, uri protocol.DocumentUri, text string, position protocol.Position) *language_service.Match {
	if plugin == nil {
		return nil
	}
	path, ok := URIToPath(uri)
	if !ok {
		return nil
	}
	return plugin.Lookup(ctx, path, []byte(text), PositionToOffset(text, position))
}

// definitionResult locates the translation value in the resource file.
func definitionResult(match *language_service.Match) []protocol.Location {
	resource := string(match.Entry.Source)
	definitions := language_service.DefinitionFor(match).Definitions

	locations := make([]protocol.Location, 0, len(definitions))
	for _, definition := range definitions {
		locations = append(locations, protocol.Location{
			URI:   PathToURI(definition.FileName),
			Range: SpanToRange(resource, definition.TextSpan.Start, definition.TextSpan.Length),
		})
	}
	return locations
}

// hoverResult shows the decoded translation text over the key literal.
func hoverResult(match *language_service.Match, source string) *protocol.Hover {
	keyRange := SpanToRange(source, match.Key.Start, match.Key.Length())

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: match.Entry.Value,
		},
		Range: &keyRange,
	}
}
