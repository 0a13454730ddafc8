package cmd

import (
	"github.com/meysamhadeli/i18nav/lsp"
	"github.com/spf13/cobra"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy [-- host command...]",
	Short: "Wrap another language server and answer translation keys in front of it",
	Long: `The 'proxy' subcommand starts the host language server (typescript-language-server --stdio unless
host_command or the arguments after '--' say otherwise) and relays every message between it and the
editor. Definition and hover requests on translation keys are answered from the resource files;
everything else is the host's answer, unchanged.`,
	Example: `  i18nav proxy
  i18nav proxy -- vtsls --stdio`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleConfigCommand(cmd)
		if err != nil {
			return err
		}

		command := rootDependencies.Config.HostCommand
		if len(args) > 0 {
			command = args
		}

		host, err := lsp.StartHost(command)
		if err != nil {
			return err
		}
		defer host.Close()

		ctx, cancel := signalContext()
		defer cancel()

		proxy := lsp.NewProxy(nil,
			lsp.WithProxyConfigure(pluginConfigurer(cmd, rootDependencies.Cwd)),
		)
		return proxy.Serve(ctx, lsp.Stdio(), host)
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)
}
