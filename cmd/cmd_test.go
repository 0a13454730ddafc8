package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meysamhadeli/i18nav/code_analyzer/models"
	"github.com/meysamhadeli/i18nav/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appSource = `import { Text } from "i18n";

export const Greeting = () => <Text id="greeting.hello" />;
export const Missing = () => <Text id="greeting.gone" />;
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestProject(t *testing.T) *RootDependencies {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "i18nav.yaml", `base_url: .
json_file_paths:
  - path: i18n/greeting.json
    namespace: greeting
`)
	writeFile(t, dir, "i18n/greeting.json", `{"greeting": {"hello": "Hi there"}}`)
	writeFile(t, dir, "src/app.tsx", appSource)

	rootDependencies, err := loadDependencies(&cobra.Command{Use: "test"}, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rootDependencies.Plugin.Close() })
	require.True(t, rootDependencies.Plugin.Enabled(), "%v", rootDependencies.Plugin.DisabledReason())
	return rootDependencies
}

func TestResolve_ByLineAndColumn(t *testing.T) {
	rootDependencies := newTestProject(t)

	line := strings.Split(appSource, "\n")[2]
	column := strings.Index(line, `"greeting.hello"`) + 2

	var out bytes.Buffer
	err := runResolve(context.Background(), rootDependencies, resolveOptions{
		file:   "src/app.tsx",
		offset: -1,
		line:   3,
		column: column,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "greeting.hello")
	assert.Contains(t, out.String(), filepath.Join("i18n", "greeting.json")+":1:24")
	assert.Contains(t, out.String(), "Hi there")
}

func TestResolve_ByOffset(t *testing.T) {
	rootDependencies := newTestProject(t)

	var out bytes.Buffer
	err := runResolve(context.Background(), rootDependencies, resolveOptions{
		file:   filepath.Join(rootDependencies.Cwd, "src", "app.tsx"),
		offset: strings.Index(appSource, `"greeting.hello"`),
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Hi there")
}

func TestResolve_NoTranslation(t *testing.T) {
	rootDependencies := newTestProject(t)

	for _, offset := range []int{0, strings.Index(appSource, `"greeting.gone"`) + 1} {
		var out bytes.Buffer
		err := runResolve(context.Background(), rootDependencies, resolveOptions{file: "src/app.tsx", offset: offset}, &out)
		assert.True(t, errors.Is(err, errNoTranslation), "offset %d: %v", offset, err)
		assert.Empty(t, out.String())
	}
}

func TestResolveOptions_Position(t *testing.T) {
	source := "ab\ncd"

	offset, err := resolveOptions{offset: 4}.position(source)
	require.NoError(t, err)
	assert.Equal(t, 4, offset)

	offset, err = resolveOptions{offset: -1, line: 2, column: 2}.position(source)
	require.NoError(t, err)
	assert.Equal(t, 4, offset)

	_, err = resolveOptions{offset: 10}.position(source)
	assert.Error(t, err)

	_, err = resolveOptions{offset: -1}.position(source)
	assert.Error(t, err)
}

func TestCheck_ReportsMissingKeys(t *testing.T) {
	rootDependencies := newTestProject(t)

	report, err := runCheck(context.Background(), rootDependencies.Plugin, rootDependencies.Cwd, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 2, report.Keys)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "greeting.gone", report.Findings[0].Key)
	assert.Equal(t, 4, report.Findings[0].Line)

	var out bytes.Buffer
	err = printReport(&out, report)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "greeting.gone")
	assert.Contains(t, out.String(), "src/app.tsx")
}

func TestPrintReport_AllTranslated(t *testing.T) {
	var out bytes.Buffer
	err := printReport(&out, &models.CheckReport{Files: 2, Keys: 5})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "5 keys in 2 files")
}

func TestLoadDependencies_MalformedRoutesDisablePlugin(t *testing.T) {
	tests := []struct {
		name   string
		routes string
	}{
		{"routes as a string", `"i18n/en.json"`},
		{"routes that are not objects", `[1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"baseUrl": ".", "plugins": [{"jsonFilePaths": `+tt.routes+`}]}}`)
			writeFile(t, dir, "src/app.tsx", appSource)

			rootDependencies, err := loadDependencies(&cobra.Command{Use: "test"}, dir)
			require.NoError(t, err)
			t.Cleanup(func() { _ = rootDependencies.Plugin.Close() })

			assert.False(t, rootDependencies.Plugin.Enabled())
			assert.ErrorIs(t, rootDependencies.Plugin.DisabledReason(), config.ErrInvalidConfig)

			err = runResolve(context.Background(), rootDependencies, resolveOptions{
				file:   "src/app.tsx",
				offset: strings.Index(appSource, `"greeting.hello"`) + 1,
			}, &bytes.Buffer{})
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestPluginConfigurer_MalformedOptionsDisablePlugin(t *testing.T) {
	rootDependencies := newTestProject(t)
	configure := pluginConfigurer(&cobra.Command{Use: "test"}, rootDependencies.Cwd)

	plugin, err := configure("", nil)
	require.NoError(t, err)
	assert.True(t, plugin.Enabled())
	_ = plugin.Close()

	plugin, err = configure(rootDependencies.Cwd, map[string]any{"jsonFilePaths": "i18n/greeting.json"})
	require.NoError(t, err)
	defer plugin.Close()
	assert.False(t, plugin.Enabled())
	assert.ErrorIs(t, plugin.DisabledReason(), config.ErrInvalidConfig)
}

func TestLoadConfig_BuildsNoPlugin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": {"plugins": [{"jsonFilePaths": "broken"}]}}`)

	rootDependencies, err := loadConfig(&cobra.Command{Use: "test"}, dir)
	require.NoError(t, err)
	assert.Nil(t, rootDependencies.Plugin)
	assert.ErrorIs(t, config.Validate(rootDependencies.Config), config.ErrInvalidConfig)
}
