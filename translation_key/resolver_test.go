package translation_key

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	resolver, err := NewResolver()
	require.NoError(t, err)
	return resolver
}

// literalSpan returns the byte span of the first quoted occurrence of key in source.
func literalSpan(t *testing.T, source, key string) (int, int) {
	t.Helper()
	for _, quote := range []string{`"`, `'`} {
		literal := quote + key + quote
		if start := strings.Index(source, literal); start >= 0 {
			return start, start + len(literal)
		}
	}
	t.Fatalf("literal %q not found in source", key)
	return 0, 0
}

func TestResolver_RecognizedShapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		key    string
	}{
		{
			name:   "Text id attribute",
			source: "export const Greeting = () => <Text id=\"greeting.hello\" />;\n",
			key:    "greeting.hello",
		},
		{
			name:   "MarkupText id attribute",
			source: "export const Legal = () => <MarkupText id=\"legal.terms\" />;\n",
			key:    "legal.terms",
		},
		{
			name:   "useText object argument",
			source: "const texts = useText({ title: \"page.title\" });\n",
			key:    "page.title",
		},
		{
			name:   "translate string argument",
			source: "const label = translate(\"common.ok\");\n",
			key:    "common.ok",
		},
		{
			name:   "translate object argument with id",
			source: "const label = translate({ id: \"common.cancel\" });\n",
			key:    "common.cancel",
		},
	}

	resolver := newTestResolver(t)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := []byte(tt.source)
			start, end := literalSpan(t, tt.source, tt.key)

			first, err := resolver.KeyAtPosition(ctx, source, start)
			require.NoError(t, err)
			require.NotNil(t, first)
			assert.Equal(t, tt.key, first.Key)
			assert.Equal(t, start, first.Start)
			assert.Equal(t, end, first.End)

			// Every offset inside the literal resolves to the same key
			for offset := start; offset <= end; offset++ {
				capture, err := resolver.KeyAtPosition(ctx, source, offset)
				require.NoError(t, err)
				require.NotNil(t, capture, "offset %d", offset)
				assert.Equal(t, first.Key, capture.Key)
				assert.Equal(t, first.Start, capture.Start)
			}
		})
	}
}

func TestResolver_NoMatch(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		position func(source string) int
	}{
		{
			name:   "cursor on translate identifier",
			source: "const label = translate(\"common.ok\");\n",
			position: func(source string) int {
				return strings.Index(source, "translate") + 2
			},
		},
		{
			name:   "unrelated component",
			source: "export const B = () => <Button id=\"common.ok\" />;\n",
			position: func(source string) int {
				return strings.Index(source, "common.ok")
			},
		},
		{
			name:   "translate object without id property",
			source: "const label = translate({ name: \"common.ok\" });\n",
			position: func(source string) int {
				return strings.Index(source, "common.ok")
			},
		},
		{
			name:   "Text attribute other than id",
			source: "export const G = () => <Text label=\"greeting.hello\" />;\n",
			position: func(source string) int {
				return strings.Index(source, "greeting.hello")
			},
		},
		{
			name:   "plain string literal",
			source: "const key = \"greeting.hello\";\n",
			position: func(source string) int {
				return strings.Index(source, "greeting.hello")
			},
		},
		{
			name:   "offset past end of file",
			source: "const label = translate(\"common.ok\");\n",
			position: func(source string) int {
				return len(source) + 10
			},
		},
	}

	resolver := newTestResolver(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture, err := resolver.KeyAtPosition(context.Background(), []byte(tt.source), tt.position(tt.source))
			require.NoError(t, err)
			assert.Nil(t, capture)
		})
	}
}

func TestResolver_KeysInSource(t *testing.T) {
	source := `import { Text, translate, useText } from "i18n";

export function Page() {
  const texts = useText({ heading: "page.heading" });
  const ok = translate("common.ok");
  return (
    <div>
      <Text id="page.intro" />
      <span>{translate({ id: "page.footer" })}</span>
    </div>
  );
}
`
	resolver := newTestResolver(t)

	keys, err := resolver.KeysInSource(context.Background(), []byte(source))
	require.NoError(t, err)

	var found []string
	for _, capture := range keys {
		found = append(found, capture.Key)
		assert.Equal(t, `"`+capture.Key+`"`, source[capture.Start:capture.End])
	}
	assert.ElementsMatch(t, []string{"page.heading", "common.ok", "page.intro", "page.footer"}, found)
}

func TestKeyCapture_Contains(t *testing.T) {
	capture := KeyCapture{Key: "a.b", Start: 10, End: 15}

	assert.False(t, capture.Contains(9))
	assert.True(t, capture.Contains(10))
	assert.True(t, capture.Contains(15))
	assert.False(t, capture.Contains(16))
	assert.Equal(t, 5, capture.Length())
}
