package lsp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestOffsetToPosition(t *testing.T) {
	content := "aé𝄞b\nxy"

	tests := []struct {
		name     string
		offset   int
		expected protocol.Position
	}{
		{"start", 0, protocol.Position{Line: 0, Character: 0}},
		{"after two byte rune", 3, protocol.Position{Line: 0, Character: 2}},
		{"after surrogate pair", 7, protocol.Position{Line: 0, Character: 4}},
		{"second line", 9, protocol.Position{Line: 1, Character: 0}},
		{"end", len(content), protocol.Position{Line: 1, Character: 2}},
		{"clamped", len(content) + 10, protocol.Position{Line: 1, Character: 2}},
		{"negative", -1, protocol.Position{Line: 0, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OffsetToPosition(content, tt.offset))
		})
	}
}

func TestPositionRoundTrip(t *testing.T) {
	content := "aé𝄞b\nxy"
	for _, offset := range []int{0, 1, 3, 7, 8, 9, 10} {
		position := OffsetToPosition(content, offset)
		assert.Equal(t, offset, PositionToOffset(content, position), "offset %d", offset)
	}
}

func TestSpanToRange(t *testing.T) {
	content := "{\n  \"hello\": \"Hi\"\n}"
	r := SpanToRange(content, 13, 4)

	assert.Equal(t, protocol.Position{Line: 1, Character: 11}, r.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 15}, r.End)
}

func TestURIConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "with space", "app.tsx")

	uri := PathToURI(path)
	assert.Contains(t, uri, "file://")
	assert.Contains(t, uri, "with%20space")

	back, ok := URIToPath(uri)
	require.True(t, ok)
	assert.Equal(t, path, back)

	_, ok = URIToPath("untitled:Untitled-1")
	assert.False(t, ok)
}
