package translation_key

import (
	"context"
	"fmt"

	"github.com/meysamhadeli/i18nav/embed_data"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

const (
	captureKey     = "translationKey"
	captureKeyName = "translationKey.name"
)

// KeyCapture is one translation-key usage found in a source file.
type KeyCapture struct {
	// Key is the literal text between the quotes, e.g. "greeting.hello".
	Key string
	// Start and End are byte offsets of the whole string literal, quotes included.
	Start int
	End   int
	Line  int // zero-based row of Start
}

// Length returns the byte length of the captured literal.
func (c KeyCapture) Length() int {
	return c.End - c.Start
}

// Contains reports whether position falls inside the literal. The end offset counts as inside so a
// cursor sitting right after the closing quote still resolves.
func (c KeyCapture) Contains(position int) bool {
	return c.Start <= position && position <= c.End
}

// Resolver locates translation-key literals in TSX/TS source with a fixed tree-sitter query.
// The compiled query is shared read-only; every call builds its own parser, tree and cursor,
// so a Resolver is safe for concurrent use.
type Resolver struct {
	lang  *sitter.Language
	query *sitter.Query
}

// NewResolver compiles the translation key query against the TSX grammar.
func NewResolver() (*Resolver, error) {
	lang := tsx.GetLanguage()
	query, err := sitter.NewQuery(embed_data.TranslationKeyQuery, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translation key query: %w", err)
	}

	return &Resolver{lang: lang, query: query}, nil
}

// Parse builds a fresh syntax tree for source. The caller owns the tree and must Close it.
func (r *Resolver) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(r.lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, nil
}

// KeyAtPosition parses source and returns the key literal enclosing position, or nil when the
// position is not a translation-key site.
func (r *Resolver) KeyAtPosition(ctx context.Context, source []byte, position int) (*KeyCapture, error) {
	tree, err := r.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return r.FindAtPosition(tree.RootNode(), source, position), nil
}

// FindAtPosition returns the first match, in query engine order, whose literal contains position.
func (r *Resolver) FindAtPosition(root *sitter.Node, source []byte, position int) *KeyCapture {
	var found *KeyCapture
	r.eachMatch(root, source, func(capture KeyCapture) bool {
		if !capture.Contains(position) {
			return true
		}
		found = &capture
		return false
	})
	return found
}

// Keys returns every key usage in the tree.
func (r *Resolver) Keys(root *sitter.Node, source []byte) []KeyCapture {
	var keys []KeyCapture
	r.eachMatch(root, source, func(capture KeyCapture) bool {
		keys = append(keys, capture)
		return true
	})
	return keys
}

// KeysInSource parses source and returns every key usage.
func (r *Resolver) KeysInSource(ctx context.Context, source []byte) ([]KeyCapture, error) {
	tree, err := r.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return r.Keys(tree.RootNode(), source), nil
}

// eachMatch walks all query matches until visit returns false.
func (r *Resolver) eachMatch(root *sitter.Node, source []byte, visit func(KeyCapture) bool) {
	if root == nil {
		return
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(r.query, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return
		}

		// Drop matches whose #eq?/#match? predicates fail
		match = cursor.FilterPredicates(match, source)

		var keyNode, nameNode *sitter.Node
		for _, capture := range match.Captures {
			switch r.query.CaptureNameForId(capture.Index) {
			case captureKey:
				keyNode = capture.Node
			case captureKeyName:
				nameNode = capture.Node
			}
		}
		if keyNode == nil {
			continue
		}

		capture := KeyCapture{
			Start: int(keyNode.StartByte()),
			End:   int(keyNode.EndByte()),
			Line:  int(keyNode.StartPoint().Row),
		}
		if nameNode != nil {
			capture.Key = nameNode.Content(source)
		}

		if !visit(capture) {
			return
		}
	}
}
