package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meysamhadeli/i18nav/config"
	"github.com/meysamhadeli/i18nav/constants/lipgloss"
	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/meysamhadeli/i18nav/lsp"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/zerolog"
)

var log = commonlog.GetLogger("i18nav")

// RootDependencies is what every subcommand needs after configuration is loaded.
type RootDependencies struct {
	Cwd    string
	Config *config.Config
	Plugin *language_service.Plugin
}

var rootCmd = &cobra.Command{
	Use:   "i18nav",
	Short: "Go to definition and hover for translation keys in TSX sources",
	Long: `i18nav resolves translation keys such as <Text id="greeting.hello" /> or translate("greeting.hello")
to their entry in the JSON or YAML resource file routed by the key's namespace.

Run it as a standalone language server ('serve'), in front of another language server ('proxy'),
or from the shell ('resolve', 'check').`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

// handleRootCommand loads the configuration for the working directory, sets up
// logging and builds the plugin. An invalid configuration still yields a
// (disabled) plugin.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}
	return loadDependencies(cmd, cwd)
}

func loadDependencies(cmd *cobra.Command, cwd string) (*RootDependencies, error) {
	rootDependencies, err := loadConfig(cmd, cwd)
	if err != nil {
		return nil, err
	}

	rootDependencies.Plugin, err = language_service.New(rootDependencies.Config)
	if err != nil {
		return nil, err
	}
	return rootDependencies, nil
}

// handleConfigCommand is handleRootCommand without the plugin, for commands
// that build their own.
func handleConfigCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}
	return loadConfig(cmd, cwd)
}

func loadConfig(cmd *cobra.Command, cwd string) (*RootDependencies, error) {
	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}
	configureLogging(cfg)
	log.Debugf("configuration sources: %v", cfg.Sources)

	return &RootDependencies{
		Cwd:    cwd,
		Config: cfg,
	}, nil
}

func configureLogging(cfg *config.Config) {
	if cfg.LogFile != "" {
		commonlog.Configure(cfg.Verbosity, &cfg.LogFile)
		return
	}
	commonlog.Configure(cfg.Verbosity, nil)
}

// pluginConfigurer builds the plugin for the workspace an editor opens,
// applying its initializationOptions on top of the on-disk configuration.
func pluginConfigurer(cmd *cobra.Command, fallbackRoot string) lsp.ConfigureFunc {
	return func(root string, options any) (*language_service.Plugin, error) {
		if root == "" {
			root = fallbackRoot
		}

		cfg, err := config.LoadConfigs(cmd.Root(), root)
		if err != nil {
			return nil, err
		}
		// malformed options leave cfg invalid and New disables the lookup
		_ = config.ApplyInitializationOptions(cfg, options)
		log.Infof("workspace %s configured from %v", root, cfg.Sources)

		return language_service.New(cfg)
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
