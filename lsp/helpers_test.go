package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/i18nav/config"
	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/meysamhadeli/i18nav/namespace_router"
	"github.com/stretchr/testify/require"
)

const appSource = `import { Text } from "i18n";

export const Greeting = () => <Text id="greeting.hello" />;
export const plain = "not a key";
`

const greetingResource = `{
  "hello": "Hi there"
}`

type fixture struct {
	dir       string
	resource  string
	source    string
	sourceURI string
	plugin    *language_service.Plugin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	resource := filepath.Join(dir, "i18n", "greeting.json")
	source := filepath.Join(dir, "src", "app.tsx")

	require.NoError(t, os.MkdirAll(filepath.Dir(resource), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0755))
	require.NoError(t, os.WriteFile(resource, []byte(greetingResource), 0644))
	require.NoError(t, os.WriteFile(source, []byte(appSource), 0644))

	return &fixture{
		dir:       dir,
		resource:  resource,
		source:    source,
		sourceURI: PathToURI(source),
		plugin:    newFixturePlugin(t, dir),
	}
}

func newFixturePlugin(t *testing.T, dir string) *language_service.Plugin {
	t.Helper()
	plugin, err := language_service.New(&config.Config{
		BaseURL: dir,
		JSONFilePaths: []namespace_router.Route{
			{Namespace: "greeting", Path: "i18n/greeting.json"},
		},
	})
	require.NoError(t, err)
	return plugin
}
