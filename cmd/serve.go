package cmd

import (
	"github.com/meysamhadeli/i18nav/lsp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run i18nav as a standalone language server over stdio",
	Long: `The 'serve' subcommand speaks LSP on stdin/stdout and answers textDocument/definition and
textDocument/hover on translation keys. Everywhere else it answers nothing, so pair it with your
regular TypeScript server in the editor, or use 'proxy' to wrap that server instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleConfigCommand(cmd)
		if err != nil {
			return err
		}

		server := lsp.NewServer(nil,
			lsp.WithConfigure(pluginConfigurer(cmd, rootDependencies.Cwd)),
			lsp.WithDebug(rootDependencies.Config.Verbosity >= 2),
		)
		log.Infof("%s %s serving on stdio", lsp.Name, lsp.Version)
		return server.RunStdio()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
