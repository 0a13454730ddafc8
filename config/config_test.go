package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/i18nav/namespace_router"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tsconfig = `{
  // compiler settings
  "compilerOptions": {
    "baseUrl": "./src",
    "plugins": [
      { "name": "typescript-plugin-css-modules" },
      {
        "name": "i18nav",
        "jsonFilePaths": [
          { "path": "i18n/common.json", "namespace": "common" },
          { "path": "i18n/errors.json", "namespace": "errors" },
        ],
      },
    ],
  },
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadConfigs_TSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", tsconfig)

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "src"), cfg.BaseURL)
	assert.Equal(t, []namespace_router.Route{
		{Path: "i18n/common.json", Namespace: "common"},
		{Path: "i18n/errors.json", Namespace: "errors"},
	}, cfg.JSONFilePaths)
	assert.False(t, cfg.EnableCache)
	assert.Equal(t, DefaultConfig.HostCommand, cfg.HostCommand)
	assert.Equal(t, []string{filepath.Join(dir, "tsconfig.json")}, cfg.Sources)
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigs_FileOverridesTSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", tsconfig)
	writeFile(t, dir, "i18nav.yaml", `base_url: /abs/locales
json_file_paths:
  - path: en.json
    namespace: app
enable_cache: true
host_command: ["my-ls", "--stdio"]
`)

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)

	assert.Equal(t, "/abs/locales", cfg.BaseURL)
	assert.Equal(t, []namespace_router.Route{{Path: "en.json", Namespace: "app"}}, cfg.JSONFilePaths)
	assert.True(t, cfg.EnableCache)
	assert.Equal(t, []string{"my-ls", "--stdio"}, cfg.HostCommand)
	assert.Len(t, cfg.Sources, 2)
}

func TestLoadConfigs_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "i18nav.json", `{"base_url": "from-file", "json_file_paths": [{"path": "a.json", "namespace": "a"}]}`)

	t.Setenv("I18NAV_BASE_URL", "from-env")
	t.Setenv("I18NAV_JSON_FILE_PATHS", `[{"path": "b.json", "namespace": "b"}]`)
	t.Setenv("I18NAV_ENABLE_CACHE", "true")

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "from-env"), cfg.BaseURL)
	assert.Equal(t, []namespace_router.Route{{Path: "b.json", Namespace: "b"}}, cfg.JSONFilePaths)
	assert.True(t, cfg.EnableCache)
}

func TestLoadConfigs_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", tsconfig)

	rootCmd := &cobra.Command{Use: "i18nav"}
	InitFlags(rootCmd)
	require.NoError(t, rootCmd.PersistentFlags().Parse([]string{"--base_url", "/flag/base", "-vv", "--enable_cache"}))

	cfg, err := LoadConfigs(rootCmd, dir)
	require.NoError(t, err)

	assert.Equal(t, "/flag/base", cfg.BaseURL)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.True(t, cfg.EnableCache)
	assert.Len(t, cfg.JSONFilePaths, 2)
}

func TestLoadConfigs_UnflaggedDefaultsDoNotShadowTSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", tsconfig)

	rootCmd := &cobra.Command{Use: "i18nav"}
	InitFlags(rootCmd)

	cfg, err := LoadConfigs(rootCmd, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.BaseURL)
}

func TestLoadConfigs_BrokenTSConfigIsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsconfig.json", `{"compilerOptions": `)

	cfg, err := LoadConfigs(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.BaseURL)
	assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
}

func TestLoadConfigs_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "i18nav.yaml", "base_url: [unclosed\n")

	_, err := LoadConfigs(nil, dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:       "/proj/src",
			JSONFilePaths: []namespace_router.Route{{Path: "en.json", Namespace: "common"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, false},
		{"missing routes", func(c *Config) { c.JSONFilePaths = nil }, false},
		{"empty routes", func(c *Config) { c.JSONFilePaths = []namespace_router.Route{} }, false},
		{"route without path", func(c *Config) { c.JSONFilePaths[0].Path = "" }, false},
		{"route without namespace", func(c *Config) { c.JSONFilePaths[0].Namespace = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	assert.ErrorIs(t, Validate(nil), ErrInvalidConfig)
}

func TestApplyInitializationOptions(t *testing.T) {
	cfg := &Config{
		ProjectRoot:   "/proj",
		BaseURL:       "/proj/src",
		JSONFilePaths: []namespace_router.Route{{Path: "en.json", Namespace: "common"}},
	}

	options := map[string]any{
		"baseUrl": "web",
		"jsonFilePaths": []any{
			map[string]any{"path": "de.json", "namespace": "de"},
		},
		"enableCache": true,
	}

	require.NoError(t, ApplyInitializationOptions(cfg, options))
	assert.Equal(t, filepath.Join("/proj", "web"), cfg.BaseURL)
	assert.Equal(t, []namespace_router.Route{{Path: "de.json", Namespace: "de"}}, cfg.JSONFilePaths)
	assert.True(t, cfg.EnableCache)

	require.NoError(t, ApplyInitializationOptions(cfg, nil))
	assert.ErrorIs(t, ApplyInitializationOptions(cfg, map[string]any{"jsonFilePaths": "nope"}), ErrInvalidConfig)
}

func TestLoadConfigs_MalformedRoutesDisableLookup(t *testing.T) {
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
			writeFile(t, dir, "tsconfig.json", `{
  "compilerOptions": {
    "baseUrl": "./src",
    "plugins": [{ "name": "i18nav", "jsonFilePaths": `+tt.routes+` }]
  }
}`)

			cfg, err := LoadConfigs(nil, dir)
			require.NoError(t, err)
			assert.Empty(t, cfg.JSONFilePaths)
			assert.Equal(t, filepath.Join(dir, "src"), cfg.BaseURL)
			assert.Equal(t, DefaultConfig.HostCommand, cfg.HostCommand)

			err = Validate(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), "json_file_paths")
		})
	}
}

func TestApplyInitializationOptions_MalformedRoutesClearConfig(t *testing.T) {
	cfg := &Config{
		ProjectRoot:   "/proj",
		BaseURL:       "/proj/src",
		JSONFilePaths: []namespace_router.Route{{Path: "en.json", Namespace: "common"}},
	}
	require.NoError(t, Validate(cfg))

	err := ApplyInitializationOptions(cfg, map[string]any{"jsonFilePaths": []any{1, 2}})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, cfg.JSONFilePaths)
	assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
}
