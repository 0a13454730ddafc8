package json_resource

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	path   string
	source []byte
	root   *yaml.Node
	lines  []int
}

// ParseYAML parses a YAML resource file.
func ParseYAML(path string, source []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(source, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResource, path, err)
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("%w: %s: empty document", ErrInvalidResource, path)
	}

	return &yamlDocument{
		path:   path,
		source: source,
		root:   &root,
		lines:  lineStarts(source),
	}, nil
}

func (d *yamlDocument) Path() string {
	return d.path
}

func (d *yamlDocument) Source() []byte {
	return d.source
}

func (d *yamlDocument) Close() {}

func (d *yamlDocument) Lookup(key string) (*Entry, error) {
	keyNode, valueNode := searchYAML(d.root, SplitKey(key))
	if keyNode == nil {
		return nil, fmt.Errorf("%w: %q in %s", ErrKeyNotFound, key, d.path)
	}
	if valueNode.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnsupportedValue, key, d.path)
	}

	start := d.offset(valueNode.Line, valueNode.Column)
	end := d.scalarEnd(valueNode, start)

	return &Entry{
		ResourcePath:  d.path,
		Key:           key,
		Start:         start,
		Length:        end - start,
		Value:         valueNode.Value,
		Raw:           string(d.source[start:end]),
		PropertyStart: d.offset(keyNode.Line, keyNode.Column),
		PropertyEnd:   end,
		Source:        d.source,
	}, nil
}

// searchYAML mirrors the JSON search: mapping pairs in order, then every child with the same keys.
func searchYAML(node *yaml.Node, keys []string) (*yaml.Node, *yaml.Node) {
	if node == nil || len(keys) == 0 || node.Kind == yaml.AliasNode {
		return nil, nil
	}

	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode || k.Value != keys[0] {
				continue
			}
			if len(keys) == 1 {
				return k, v
			}
			if fk, fv := searchYAML(v, keys[1:]); fk != nil {
				return fk, fv
			}
		}
	}

	for _, child := range node.Content {
		if fk, fv := searchYAML(child, keys); fk != nil {
			return fk, fv
		}
	}

	return nil, nil
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offset converts a 1-based line and rune column into a byte offset.
func (d *yamlDocument) offset(line, column int) int {
	if line < 1 || line > len(d.lines) {
		return 0
	}
	pos := d.lines[line-1]
	for c := 1; c < column && pos < len(d.source); c++ {
		_, size := utf8.DecodeRune(d.source[pos:])
		pos += size
	}
	return pos
}

func (d *yamlDocument) scalarEnd(node *yaml.Node, start int) int {
	src := d.source
	switch node.Style {
	case yaml.DoubleQuotedStyle:
		for i := start + 1; i < len(src); i++ {
			switch src[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(src)
	case yaml.SingleQuotedStyle:
		for i := start + 1; i < len(src); i++ {
			if src[i] != '\'' {
				continue
			}
			if i+1 < len(src) && src[i+1] == '\'' {
				i++
				continue
			}
			return i + 1
		}
		return len(src)
	}

	if bytes.HasPrefix(src[start:], []byte(node.Value)) {
		return start + len(node.Value)
	}

	// block scalars and folded plain scalars: stop at the end of the first line
	end := bytes.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src) - start
	}
	line := src[start : start+end]
	if i := bytes.Index(line, []byte(" #")); i >= 0 {
		line = line[:i]
	}
	return start + len(bytes.TrimRight(line, " \t\r"))
}
