package lsp

import (
	"fmt"
	"os"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentStore mirrors the text of documents open in the editor.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[protocol.DocumentUri]string
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[protocol.DocumentUri]string),
	}
}

func (s *DocumentStore) Open(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = text
}

func (s *DocumentStore) Close(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, uri)
}

func (s *DocumentStore) Get(uri protocol.DocumentUri) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.documents[uri]
	return text, ok
}

// Change applies content changes in order. Ranged changes are spliced in;
// whole-document changes replace the text.
func (s *DocumentStore) Change(uri protocol.DocumentUri, changes []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.documents[uri]
	if !ok {
		return fmt.Errorf("change for unopened document %s", uri)
	}

	for _, change := range changes {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text = applyRangeChange(text, change)
		case *protocol.TextDocumentContentChangeEvent:
			text = applyRangeChange(text, *change)
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		default:
			return fmt.Errorf("unsupported content change %T", change)
		}
	}

	s.documents[uri] = text
	return nil
}

func applyRangeChange(text string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}
	start, end := change.Range.IndexesIn(text)
	if end < start {
		start, end = end, start
	}
	return text[:start] + change.Text + text[end:]
}

// GetSourceText returns the editor's copy of fileName, or the file on disk
// when the editor does not have it open.
func (s *DocumentStore) GetSourceText(fileName string) ([]byte, bool) {
	if text, ok := s.Get(PathToURI(fileName)); ok {
		return []byte(text), true
	}
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, false
	}
	return content, true
}
