package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetToPosition converts a byte offset into a line and UTF-16 character position.
func OffsetToPosition(content string, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(content) {
		offset = len(content)
	}

	before := content[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1

	character := 0
	for _, r := range before[lineStart:] {
		character += utf16.RuneLen(r)
	}

	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(character),
	}
}

// PositionToOffset converts an LSP position into a byte offset.
func PositionToOffset(content string, position protocol.Position) int {
	return position.IndexIn(content)
}

// SpanToRange converts a byte span into an LSP range.
func SpanToRange(content string, start, length int) protocol.Range {
	return protocol.Range{
		Start: OffsetToPosition(content, start),
		End:   OffsetToPosition(content, start+length),
	}
}

// URIToPath returns the file system path of a file:// URI.
func URIToPath(uri string) (string, bool) {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(parsed.Path), true
}

// PathToURI returns the file:// URI of an absolute path.
func PathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
