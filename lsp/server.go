package lsp

import (
	gocontext "context"

	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const Name = "i18nav"

var Version = "0.1.0"

// Server is a standalone language server that answers definition and hover
// on translation keys and nothing else.
type Server struct {
	handler   protocol.Handler
	documents *DocumentStore
	plugins   pluginHolder
	configure ConfigureFunc
	debug     bool
}

type ServerOption func(*Server)

// WithConfigure rebuilds the plugin when the editor sends initialize.
func WithConfigure(configure ConfigureFunc) ServerOption {
	return func(s *Server) {
		s.configure = configure
	}
}

// WithDebug logs every JSON-RPC message.
func WithDebug(debug bool) ServerOption {
	return func(s *Server) {
		s.debug = debug
	}
}

func NewServer(plugin *language_service.Plugin, opts ...ServerOption) *Server {
	s := &Server{
		documents: NewDocumentStore(),
	}
	s.plugins.set(plugin)
	for _, opt := range opts {
		opt(s)
	}

	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentHover:      s.hover,
		TextDocumentDefinition: s.definition,
	}

	return s
}

// Handler exposes the protocol handler, mostly for tests.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// RunStdio serves on stdin/stdout until the editor disconnects.
func (s *Server) RunStdio() error {
	defer s.plugins.close()
	return server.NewServer(&s.handler, Name, s.debug).RunStdio()
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.plugins.reconfigure(s.configure, params)

	capabilities := s.handler.CreateServerCapabilities()
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &Version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return s.documents.Change(params.TextDocument.URI, params.ContentChanges)
}

func (s *Server) didClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.documents.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	match := lookupAt(contextFor(context), s.plugins.get(), params.TextDocument.URI, text, params.Position)
	if match == nil {
		return nil, nil
	}
	return hoverResult(match, text), nil
}

func (s *Server) definition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	text, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	match := lookupAt(contextFor(context), s.plugins.get(), params.TextDocument.URI, text, params.Position)
	if match == nil {
		return nil, nil
	}
	return definitionResult(match), nil
}

// glsp runs handlers without a request context.
func contextFor(*glsp.Context) gocontext.Context {
	return gocontext.Background()
}
