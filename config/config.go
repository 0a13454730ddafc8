package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/meysamhadeli/i18nav/json_resource"
	"github.com/meysamhadeli/i18nav/namespace_router"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("i18nav.config")

// ErrInvalidConfig disables the translation lookup for the whole session.
var ErrInvalidConfig = errors.New("invalid i18nav configuration")

// Config represents the structure of the configuration file
type Config struct {
	BaseURL       string                   `mapstructure:"base_url" validate:"required"`
	JSONFilePaths []namespace_router.Route `mapstructure:"json_file_paths" validate:"required,min=1,dive"`
	EnableCache   bool                     `mapstructure:"enable_cache"`
	LogFile       string                   `mapstructure:"log_file"`
	Verbosity     int                      `mapstructure:"verbosity" validate:"gte=0"`
	HostCommand   []string                 `mapstructure:"host_command"`

	// ProjectRoot is the directory relative base URLs resolve against.
	ProjectRoot string `mapstructure:"-"`
	// Sources lists where settings came from, lowest precedence first.
	Sources []string `mapstructure:"-"`
	// Invalid records a malformed setting that was dropped while loading. Validate reports it.
	Invalid error `mapstructure:"-"`
}

// DefaultConfig values
var DefaultConfig = Config{
	EnableCache: false,
	Verbosity:   0,
	HostCommand: []string{"typescript-language-server", "--stdio"},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfigs builds the configuration from defaults, tsconfig.json, the i18nav
// config file, environment variables and flags, in that order of precedence.
// rootCmd may be nil when no flags apply.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()
	var sources []string

	setDefaults(v)

	if found, err := applyTSConfig(v, cwd); err != nil {
		log.Warningf("ignoring tsconfig.json: %s", err)
	} else if found != "" {
		sources = append(sources, found)
	}

	v.SetEnvPrefix("I18NAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("i18nav")
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			log.Debugf("no i18nav config file in %s", cwd)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		sources = append(sources, used)
	}

	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	var config Config
	if err := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); err != nil {
		// a malformed route list disables the lookup instead of failing the command
		v.Set("json_file_paths", []namespace_router.Route{})
		config = Config{}
		if retryErr := v.Unmarshal(&config, viper.DecodeHook(decodeHook())); retryErr != nil {
			return nil, fmt.Errorf("unable to decode into struct: %w", err)
		}
		config.JSONFilePaths = nil
		config.Invalid = fmt.Errorf("%w: json_file_paths: %v", ErrInvalidConfig, err)
	}

	config.ProjectRoot = cwd
	config.Sources = sources
	config.BaseURL = resolveBaseURL(cwd, config.BaseURL)

	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("enable_cache", DefaultConfig.EnableCache)
	v.SetDefault("verbosity", DefaultConfig.Verbosity)
	v.SetDefault("host_command", DefaultConfig.HostCommand)
	v.SetDefault("log_file", "")
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("base_url", "I18NAV_BASE_URL")
	_ = v.BindEnv("json_file_paths", "I18NAV_JSON_FILE_PATHS")
	_ = v.BindEnv("enable_cache", "I18NAV_ENABLE_CACHE")
	_ = v.BindEnv("log_file", "I18NAV_LOG_FILE")
	_ = v.BindEnv("verbosity", "I18NAV_VERBOSITY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	_ = v.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = v.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = v.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log_file"))
	_ = v.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbose"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to an i18nav configuration file (JSON or YAML).")
	rootCmd.PersistentFlags().String("base_url", "", "Directory the jsonFilePaths entries are relative to (defaults to compilerOptions.baseUrl).")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Keep parsed resource files in memory until they change on disk.")
	rootCmd.PersistentFlags().String("log_file", "", "Write logs to this file instead of stderr.")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more).")
}

// Validate checks the settings the translation lookup depends on.
func Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: no configuration", ErrInvalidConfig)
	}
	if config.Invalid != nil {
		return config.Invalid
	}
	if err := validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			reasons := make([]string, 0, len(validationErrors))
			for _, fieldError := range validationErrors {
				reasons = append(reasons, fmt.Sprintf("%s failed %q", fieldError.Namespace(), fieldError.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(reasons, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// initializationOptions is the shape editors send in the LSP initialize request.
type initializationOptions struct {
	BaseURL       *string                  `mapstructure:"baseUrl"`
	JSONFilePaths []namespace_router.Route `mapstructure:"jsonFilePaths"`
	EnableCache   *bool                    `mapstructure:"enableCache"`
}

// ApplyInitializationOptions overrides config with the editor's initializationOptions.
// Options that cannot be decoded clear the routes and mark config invalid.
func ApplyInitializationOptions(config *Config, options any) error {
	if options == nil {
		return nil
	}

	var parsed initializationOptions
	if err := mapstructure.Decode(options, &parsed); err != nil {
		config.JSONFilePaths = nil
		config.Invalid = fmt.Errorf("%w: initializationOptions: %v", ErrInvalidConfig, err)
		config.Sources = append(config.Sources, "initializationOptions")
		return config.Invalid
	}

	if parsed.BaseURL != nil {
		config.BaseURL = resolveBaseURL(config.ProjectRoot, *parsed.BaseURL)
	}
	if parsed.JSONFilePaths != nil {
		config.JSONFilePaths = parsed.JSONFilePaths
	}
	if parsed.EnableCache != nil {
		config.EnableCache = *parsed.EnableCache
	}
	config.Sources = append(config.Sources, "initializationOptions")

	return nil
}

func resolveBaseURL(root, baseURL string) string {
	if baseURL == "" || filepath.IsAbs(baseURL) || root == "" {
		return baseURL
	}
	return filepath.Join(root, baseURL)
}

// applyTSConfig uses compilerOptions.baseUrl and the plugin entry carrying
// jsonFilePaths from tsconfig.json as defaults.
func applyTSConfig(v *viper.Viper, cwd string) (string, error) {
	path := filepath.Join(cwd, "tsconfig.json")
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	value, err := json_resource.ParseJSONValue(context.Background(), content)
	if err != nil {
		return "", err
	}

	root, _ := value.(map[string]any)
	compilerOptions, _ := root["compilerOptions"].(map[string]any)

	if baseURL, ok := compilerOptions["baseUrl"].(string); ok {
		v.SetDefault("base_url", baseURL)
	}

	plugins, _ := compilerOptions["plugins"].([]any)
	for _, plugin := range plugins {
		entry, _ := plugin.(map[string]any)
		if paths, ok := entry["jsonFilePaths"]; ok {
			v.SetDefault("json_file_paths", paths)
			break
		}
	}

	return path, nil
}

var routesType = reflect.TypeOf([]namespace_router.Route{})

// decodeHook keeps viper's default hooks and lets env vars carry routes as JSON.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		func(from reflect.Type, to reflect.Type, data any) (any, error) {
			if from.Kind() != reflect.String || to != routesType {
				return data, nil
			}
			var routes []namespace_router.Route
			if err := json.Unmarshal([]byte(data.(string)), &routes); err != nil {
				return nil, fmt.Errorf("json_file_paths: %w", err)
			}
			return routes, nil
		},
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
