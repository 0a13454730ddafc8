package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/meysamhadeli/i18nav/code_analyzer"
	"github.com/meysamhadeli/i18nav/code_analyzer/models"
	"github.com/meysamhadeli/i18nav/constants/lipgloss"
	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/meysamhadeli/i18nav/translation_key"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkJobs int

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Report translation keys that have no translation",
	Long: `The 'check' subcommand scans the TypeScript and JavaScript sources under dir (the current directory
by default), skipping build output, node_modules and anything listed in .i18nav-ignore. Every key
is resolved the same way the editor resolves it; keys without a translation are listed and the
command exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleConfigCommand(cmd)
		if err != nil {
			return err
		}

		dir := rootDependencies.Cwd
		if len(args) == 1 {
			dir = args[0]
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(rootDependencies.Cwd, dir)
			}
		}

		// every key hits the resources, so keep parsed files around for the scan
		rootDependencies.Config.EnableCache = true
		plugin, err := language_service.New(rootDependencies.Config)
		if err != nil {
			return err
		}
		defer plugin.Close()

		ctx, cancel := signalContext()
		defer cancel()

		report, err := runCheck(ctx, plugin, dir, checkJobs)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "Files scanned in parallel (defaults to the number of CPUs).")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context, plugin *language_service.Plugin, dir string, jobs int) (*models.CheckReport, error) {
	if !plugin.Enabled() {
		return nil, plugin.DisabledReason()
	}

	resolver, err := translation_key.NewResolver()
	if err != nil {
		return nil, err
	}
	analyzer := code_analyzer.NewCodeAnalyzer(dir, resolver, jobs)

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)
	spinnerInstance, _ := spinner.Start("Scanning sources...")

	project, err := analyzer.GetProjectFiles(ctx, dir)
	if err != nil {
		_ = spinnerInstance.Stop()
		return nil, err
	}

	spinnerInstance.UpdateText(fmt.Sprintf("Checking %d keys...", project.KeyCount()))
	report, err := analyzer.CheckKeys(ctx, project, plugin)
	_ = spinnerInstance.Stop()
	if err != nil {
		return nil, err
	}

	if stats := plugin.CacheStats(); stats != nil {
		log.Infof("resource cache: %s", stats)
	}
	return report, nil
}

func printReport(out io.Writer, report *models.CheckReport) error {
	summary := fmt.Sprintf("%d keys in %d files", report.Keys, report.Files)
	if report.OK() {
		fmt.Fprintln(out, lipgloss.Green.Render("✓ "+summary+", all translated"))
		return nil
	}

	data := pterm.TableData{{"File", "Line", "Column", "Key", "Problem"}}
	for _, finding := range report.Findings {
		data = append(data, []string{
			finding.RelativePath,
			strconv.Itoa(finding.Line),
			strconv.Itoa(finding.Column),
			finding.Key,
			finding.Reason,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, table)
	fmt.Fprintln(out, lipgloss.Yellow.Render(summary))

	return fmt.Errorf("%d keys without translation", len(report.Findings))
}
