package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/i18nav/constants/lipgloss"
	"github.com/meysamhadeli/i18nav/json_resource"
	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/meysamhadeli/i18nav/language_service/models"
	"github.com/meysamhadeli/i18nav/lsp"
	"github.com/meysamhadeli/i18nav/utils"
	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var errNoTranslation = errors.New("no translation found")

type resolveOptions struct {
	file   string
	offset int
	line   int
	column int
	theme  string
}

var resolveFlags resolveOptions

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the translation behind the key at a position",
	Long: `The 'resolve' subcommand does what the editor does on hover: it finds the translation key at the
given position of a source file and prints the key, where its value lives and the value itself.
Give the position either as a byte --offset or as one-based --line and --column.`,
	Example: `  i18nav resolve --file src/App.tsx --line 12 --column 24
  i18nav resolve -f src/App.tsx --offset 310`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Plugin.Close()

		return runResolve(cmd.Context(), rootDependencies, resolveFlags, cmd.OutOrStdout())
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFlags.file, "file", "f", "", "Source file containing the key.")
	resolveCmd.Flags().IntVar(&resolveFlags.offset, "offset", -1, "Zero-based byte offset of the cursor.")
	resolveCmd.Flags().IntVarP(&resolveFlags.line, "line", "l", 0, "One-based line of the cursor.")
	resolveCmd.Flags().IntVar(&resolveFlags.column, "column", 0, "One-based column of the cursor, in UTF-16 code units as editors count them.")
	resolveCmd.Flags().StringVar(&resolveFlags.theme, "theme", utils.DefaultTheme, "Chroma style used to print the value.")
	_ = resolveCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(ctx context.Context, rootDependencies *RootDependencies, options resolveOptions, out io.Writer) error {
	path := options.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDependencies.Cwd, path)
	}

	sources := language_service.FileSourceProvider{}
	source, ok := sources.GetSourceText(path)
	if !ok {
		return fmt.Errorf("cannot read %s", options.file)
	}

	offset, err := options.position(string(source))
	if err != nil {
		return err
	}

	if !rootDependencies.Plugin.Enabled() {
		return rootDependencies.Plugin.DisabledReason()
	}

	service := rootDependencies.Plugin.Decorate(language_service.NullLanguageService{}, sources)
	definition, err := service.DefinitionAnswer(ctx, path, offset)
	if err != nil {
		return err
	}
	if !definition.FromPlugin() {
		return fmt.Errorf("%w at %s:%d", errNoTranslation, options.file, offset)
	}
	quickInfo, err := service.QuickInfoAnswer(ctx, path, offset)
	if err != nil {
		return err
	}

	entry, err := rootDependencies.Plugin.LookupKey(ctx, definition.Value.Definitions[0].Name)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderResolution(rootDependencies.Cwd, definition.Value, quickInfo.Value, entry, options.theme))
	return nil
}

// position returns the byte offset the options point at in source.
func (o resolveOptions) position(source string) (int, error) {
	switch {
	case o.offset >= 0:
		if o.offset > len(source) {
			return 0, fmt.Errorf("offset %d is past the end of the file (%d bytes)", o.offset, len(source))
		}
		return o.offset, nil
	case o.line > 0 && o.column > 0:
		return lsp.PositionToOffset(source, protocol.Position{
			Line:      protocol.UInteger(o.line - 1),
			Character: protocol.UInteger(o.column - 1),
		}), nil
	default:
		return 0, errors.New("give either --offset or both --line and --column")
	}
}

func renderResolution(cwd string, definition *models.DefinitionInfoAndBoundSpan, quickInfo *models.QuickInfo, entry *json_resource.Entry, theme string) string {
	info := definition.Definitions[0]

	location := info.FileName
	if relative, err := filepath.Rel(cwd, info.FileName); err == nil && !strings.HasPrefix(relative, "..") {
		location = relative
	}
	position := lsp.OffsetToPosition(string(entry.Source), info.TextSpan.Start)
	location = fmt.Sprintf("%s:%d:%d", location, position.Line+1, position.Character+1)

	raw := quickInfo.DisplayText()

	lines := []string{
		lipgloss.Info.Render(info.Name),
		lipgloss.Gray.Render(location),
		utils.Highlight(raw, utils.LanguageOf(info.FileName), theme),
	}
	if entry.Value != raw {
		lines = append(lines, entry.Value)
	}

	return lipgloss.BoxStyle.Render(strings.Join(lines, "\n"))
}
