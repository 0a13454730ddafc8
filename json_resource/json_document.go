package json_resource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// The resource text is wrapped so that the TypeScript grammar reads it as a
// single parenthesized expression. The newline keeps a trailing line comment
// from swallowing the closing paren.
const (
	jsonPrefix = "("
	jsonSuffix = "\n)"
)

type jsonDocument struct {
	mu      sync.Mutex
	path    string
	source  []byte
	wrapped []byte
	tree    *sitter.Tree
	body    *sitter.Node
	shared  bool
}

// ParseJSON parses a JSON (or JSONC) resource. Invalid syntax returns ErrInvalidResource.
func ParseJSON(ctx context.Context, path string, source []byte) (Document, error) {
	tree, body, wrapped, err := parseJSONTree(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResource, path, err)
	}

	return &jsonDocument{
		path:    path,
		source:  source,
		wrapped: wrapped,
		tree:    tree,
		body:    body,
	}, nil
}

func parseJSONTree(ctx context.Context, source []byte) (*sitter.Tree, *sitter.Node, []byte, error) {
	wrapped := make([]byte, 0, len(source)+len(jsonPrefix)+len(jsonSuffix))
	wrapped = append(wrapped, jsonPrefix...)
	wrapped = append(wrapped, source...)
	wrapped = append(wrapped, jsonSuffix...)

	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, wrapped)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		tree.Close()
		return nil, nil, nil, fmt.Errorf("syntax error")
	}

	body := jsonBody(root)
	if body == nil {
		tree.Close()
		return nil, nil, nil, fmt.Errorf("expected a single JSON value")
	}

	return tree, body, wrapped, nil
}

// jsonBody unwraps program > expression_statement > parenthesized_expression
// and returns the JSON value inside.
func jsonBody(root *sitter.Node) *sitter.Node {
	if root.NamedChildCount() != 1 {
		return nil
	}
	statement := root.NamedChild(0)
	if statement.Type() != "expression_statement" || statement.NamedChildCount() != 1 {
		return nil
	}
	paren := statement.NamedChild(0)
	if paren.Type() != "parenthesized_expression" {
		return nil
	}

	var body *sitter.Node
	for i := 0; i < int(paren.NamedChildCount()); i++ {
		child := paren.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if body != nil {
			return nil
		}
		body = child
	}

	return body
}

func (d *jsonDocument) Path() string {
	return d.path
}

func (d *jsonDocument) Source() []byte {
	return d.source
}

// Close releases the syntax tree. Documents held by a cache are left alone.
func (d *jsonDocument) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shared || d.tree == nil {
		return
	}
	d.tree.Close()
	d.tree = nil
}

func (d *jsonDocument) markShared() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shared = true
}

func (d *jsonDocument) Lookup(key string) (*Entry, error) {
	// node wrappers are memoized per tree, so lookups on a shared document are serialized
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree == nil {
		return nil, fmt.Errorf("%w: %s is closed", ErrUnreadable, d.path)
	}

	property := d.search(d.body, SplitKey(key))
	if property == nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrKeyNotFound, key, d.path)
	}

	value := nthToken(property, 2)
	if value == nil {
		return nil, fmt.Errorf("%w: %q in %s has no value", ErrUnsupportedValue, key, d.path)
	}

	raw := value.Content(d.wrapped)
	var text string
	switch value.Type() {
	case "string":
		text = decodeString(raw)
	case "number", "true", "false", "null", "unary_expression":
		text = raw
	default:
		return nil, fmt.Errorf("%w: %q in %s is a %s", ErrUnsupportedValue, key, d.path, value.Type())
	}

	return &Entry{
		ResourcePath:  d.path,
		Key:           key,
		Start:         d.offset(value.StartByte()),
		Length:        int(value.EndByte() - value.StartByte()),
		Value:         text,
		Raw:           raw,
		PropertyStart: d.offset(property.StartByte()),
		PropertyEnd:   d.offset(property.EndByte()),
		Source:        d.source,
	}, nil
}

// search finds the pair named by keys. Pairs are scanned in declaration order;
// if nothing matches below this node, every child is searched again with the same keys.
func (d *jsonDocument) search(node *sitter.Node, keys []string) *sitter.Node {
	if node == nil || len(keys) == 0 {
		return nil
	}

	if node.Type() == "object" {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			property := node.NamedChild(i)
			if property.Type() != "pair" {
				continue
			}
			name, ok := d.propertyName(property)
			if !ok || name != keys[0] {
				continue
			}
			if len(keys) == 1 {
				return property
			}
			if found := d.search(property.ChildByFieldName("value"), keys[1:]); found != nil {
				return found
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if found := d.search(node.Child(i), keys); found != nil {
			return found
		}
	}

	return nil
}

func (d *jsonDocument) propertyName(property *sitter.Node) (string, bool) {
	key := property.ChildByFieldName("key")
	if key == nil {
		return "", false
	}
	switch key.Type() {
	case "string":
		return decodeString(key.Content(d.wrapped)), true
	case "property_identifier":
		return key.Content(d.wrapped), true
	}
	return "", false
}

func (d *jsonDocument) offset(wrappedOffset uint32) int {
	return int(wrappedOffset) - len(jsonPrefix)
}

// nthToken returns the n-th direct child, not counting comments.
func nthToken(node *sitter.Node, n int) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if n == 0 {
			return child
		}
		n--
	}
	return nil
}

func decodeString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	if q := raw[0]; (q == '"' || q == '\'') && raw[len(raw)-1] == q {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// ParseJSONValue parses JSONC text into plain Go values: map[string]any, []any,
// string, float64, bool and nil. Comments and trailing commas are accepted.
func ParseJSONValue(ctx context.Context, source []byte) (any, error) {
	tree, body, wrapped, err := parseJSONTree(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResource, err)
	}
	defer tree.Close()

	return jsonValue(body, wrapped)
}

func jsonValue(node *sitter.Node, src []byte) (any, error) {
	switch node.Type() {
	case "object":
		out := make(map[string]any)
		for i := 0; i < int(node.NamedChildCount()); i++ {
			property := node.NamedChild(i)
			if property.Type() != "pair" {
				continue
			}
			key := property.ChildByFieldName("key")
			value := property.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			v, err := jsonValue(value, src)
			if err != nil {
				return nil, err
			}
			out[decodeString(key.Content(src))] = v
		}
		return out, nil
	case "array":
		out := make([]any, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			v, err := jsonValue(child, src)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "string":
		return decodeString(node.Content(src)), nil
	case "number", "unary_expression":
		n, err := strconv.ParseFloat(node.Content(src), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrInvalidResource, node.Content(src))
		}
		return n, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s", ErrInvalidResource, node.Type())
}
