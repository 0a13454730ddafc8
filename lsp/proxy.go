package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/sourcegraph/jsonrpc2"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Proxy sits between the editor and a host language server. Every frame is
// forwarded as is, except definition and hover answers on translation keys,
// which the plugin replaces.
type Proxy struct {
	plugins   pluginHolder
	configure ConfigureFunc
	documents *DocumentStore

	editor *jsonrpc2.Conn
	host   *jsonrpc2.Conn
	ready  chan struct{}
	wg     sync.WaitGroup
}

type ProxyOption func(*Proxy)

// WithProxyConfigure rebuilds the plugin from the editor's initialize request.
func WithProxyConfigure(configure ConfigureFunc) ProxyOption {
	return func(p *Proxy) {
		p.configure = configure
	}
}

func NewProxy(plugin *language_service.Plugin, opts ...ProxyOption) *Proxy {
	p := &Proxy{
		documents: NewDocumentStore(),
		ready:     make(chan struct{}),
	}
	p.plugins.set(plugin)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Proxy) Documents() *DocumentStore {
	return p.documents
}

// Serve proxies between the two streams until either side disconnects or ctx
// is cancelled. Both streams are closed on return.
func (p *Proxy) Serve(ctx context.Context, editor io.ReadWriteCloser, host io.ReadWriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.editor = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(editor, jsonrpc2.VSCodeObjectCodec{}), handlerFunc(p.handleEditor))
	p.host = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(host, jsonrpc2.VSCodeObjectCodec{}), handlerFunc(p.handleHost))
	close(p.ready)

	var err error
	select {
	case <-p.editor.DisconnectNotify():
		log.Info("editor disconnected")
	case <-p.host.DisconnectNotify():
		log.Info("host language server disconnected")
	case <-ctx.Done():
		err = ctx.Err()
	}

	cancel()
	_ = p.editor.Close()
	_ = p.host.Close()
	p.wg.Wait()
	p.plugins.close()

	return err
}

// handlerFunc answers requests itself, usually after the other side replied.
type handlerFunc func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request)

func (h handlerFunc) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h(ctx, conn, req)
}

func (p *Proxy) handleEditor(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	<-p.ready

	p.mirror(req)

	if req.Notif {
		if err := p.host.Notify(ctx, req.Method, paramsOf(req)); err != nil {
			log.Errorf("forwarding %s to host: %s", req.Method, err)
		}
		return
	}

	// Snapshot the document before later frames change it.
	var intercept func() (any, bool)
	switch req.Method {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if req.Params != nil && json.Unmarshal(*req.Params, &params) == nil {
			p.plugins.reconfigure(p.configure, &params)
		}
	case protocol.MethodTextDocumentHover:
		var params protocol.HoverParams
		if req.Params != nil && json.Unmarshal(*req.Params, &params) == nil {
			intercept = p.interceptHover(ctx, params.TextDocumentPositionParams)
		}
	case protocol.MethodTextDocumentDefinition:
		var params protocol.DefinitionParams
		if req.Params != nil && json.Unmarshal(*req.Params, &params) == nil {
			intercept = p.interceptDefinition(ctx, params.TextDocumentPositionParams)
		}
	}

	waiter, err := p.host.DispatchCall(ctx, req.Method, paramsOf(req), jsonrpc2.PickID(req.ID))
	if err != nil {
		p.replyError(ctx, conn, req, err)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if intercept != nil {
			if result, ok := intercept(); ok {
				if err := conn.Reply(ctx, req.ID, result); err != nil {
					log.Errorf("replying to %s: %s", req.Method, err)
				}
				return
			}
		}

		var raw json.RawMessage
		if err := waiter.Wait(ctx, &raw); err != nil {
			p.replyError(ctx, conn, req, err)
			return
		}
		if err := conn.Reply(ctx, req.ID, raw); err != nil {
			log.Errorf("replying to %s: %s", req.Method, err)
		}
	}()
}

func (p *Proxy) handleHost(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	<-p.ready

	if req.Notif {
		if err := p.editor.Notify(ctx, req.Method, paramsOf(req)); err != nil {
			log.Errorf("forwarding %s to editor: %s", req.Method, err)
		}
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		var raw json.RawMessage
		if err := p.editor.Call(ctx, req.Method, paramsOf(req), &raw, jsonrpc2.PickID(req.ID)); err != nil {
			p.replyError(ctx, conn, req, err)
			return
		}
		if err := conn.Reply(ctx, req.ID, raw); err != nil {
			log.Errorf("replying to host %s: %s", req.Method, err)
		}
	}()
}

func (p *Proxy) interceptHover(ctx context.Context, params protocol.TextDocumentPositionParams) func() (any, bool) {
	text, ok := p.documents.Get(params.TextDocument.URI)
	if !ok {
		return nil
	}
	plugin := p.plugins.get()

	return func() (any, bool) {
		match := lookupAt(ctx, plugin, params.TextDocument.URI, text, params.Position)
		if match == nil {
			return nil, false
		}
		return hoverResult(match, text), true
	}
}

func (p *Proxy) interceptDefinition(ctx context.Context, params protocol.TextDocumentPositionParams) func() (any, bool) {
	text, ok := p.documents.Get(params.TextDocument.URI)
	if !ok {
		return nil
	}
	plugin := p.plugins.get()

	return func() (any, bool) {
		match := lookupAt(ctx, plugin, params.TextDocument.URI, text, params.Position)
		if match == nil {
			return nil, false
		}
		return definitionResult(match), true
	}
}

// mirror keeps the document store in step with the editor.
func (p *Proxy) mirror(req *jsonrpc2.Request) {
	if req.Params == nil {
		return
	}

	switch req.Method {
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			p.documents.Open(params.TextDocument.URI, params.TextDocument.Text)
		}
	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			if err := p.documents.Change(params.TextDocument.URI, params.ContentChanges); err != nil {
				log.Warningf("mirroring change: %s", err)
			}
		}
	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err == nil {
			p.documents.Close(params.TextDocument.URI)
		}
	}
}

func (p *Proxy) replyError(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, err error) {
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) {
		rpcErr = &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	if err := conn.ReplyWithError(ctx, req.ID, rpcErr); err != nil {
		log.Errorf("replying to %s with error: %s", req.Method, err)
	}
}

func paramsOf(req *jsonrpc2.Request) any {
	if req.Params == nil {
		return nil
	}
	return *req.Params
}
