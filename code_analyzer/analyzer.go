package code_analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/meysamhadeli/i18nav/code_analyzer/contracts"
	"github.com/meysamhadeli/i18nav/code_analyzer/models"
	"github.com/meysamhadeli/i18nav/json_resource"
	"github.com/meysamhadeli/i18nav/language_service"
	"github.com/meysamhadeli/i18nav/translation_key"
	"github.com/meysamhadeli/i18nav/utils"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("i18nav.scan")

// Files over this size are skipped; they are almost always generated bundles.
const maxFileSize = 512 * 1024

// CodeAnalyzer finds translation keys across a project and checks them against the resources.
type CodeAnalyzer struct {
	Cwd      string
	resolver *translation_key.Resolver
	limit    int
}

// NewCodeAnalyzer initializes a new CodeAnalyzer. A limit below one uses the number of CPUs.
func NewCodeAnalyzer(cwd string, resolver *translation_key.Resolver, limit int) contracts.ICodeAnalyzer {
	if limit < 1 {
		limit = runtime.NumCPU()
	}
	return &CodeAnalyzer{
		Cwd:      cwd,
		resolver: resolver,
		limit:    limit,
	}
}

// GetProjectFiles walks rootDir and parses every source file that is not ignored.
func (analyzer *CodeAnalyzer) GetProjectFiles(ctx context.Context, rootDir string) (*models.FullContextData, error) {
	ignorePatterns, err := utils.GetIgnorePatterns(rootDir)
	if err != nil {
		return nil, err
	}

	var files []models.FileData
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootDir {
			return nil
		}

		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		relativePath = filepath.ToSlash(relativePath)

		if utils.IsDefaultIgnored(relativePath) || utils.IsIgnored(relativePath, ignorePatterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || utils.GetSupportedLanguage(relativePath) == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %s, error: %w", relativePath, err)
		}
		if info.Size() > maxFileSize {
			log.Debugf("skipping large file %s", relativePath)
			return nil
		}

		files = append(files, models.FileData{RelativePath: relativePath, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzer.limit)
	for i := range files {
		g.Go(func() error {
			content, err := os.ReadFile(files[i].Path)
			if err != nil {
				return fmt.Errorf("failed to read file: %s, error: %w", files[i].RelativePath, err)
			}
			keys, err := analyzer.ProcessFile(ctx, content)
			if err != nil {
				return fmt.Errorf("failed to parse file: %s, error: %w", files[i].RelativePath, err)
			}
			files[i].Content = content
			files[i].Keys = keys
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("scanned %d files under %s", len(files), rootDir)
	return &models.FullContextData{FileData: files}, nil
}

// ProcessFile returns every translation key used in sourceCode.
func (analyzer *CodeAnalyzer) ProcessFile(ctx context.Context, sourceCode []byte) ([]translation_key.KeyCapture, error) {
	return analyzer.resolver.KeysInSource(ctx, sourceCode)
}

// CheckKeys looks up every key of the project and reports the ones without a translation.
func (analyzer *CodeAnalyzer) CheckKeys(ctx context.Context, project *models.FullContextData, lookup contracts.IKeyLookup) (*models.CheckReport, error) {
	findings := make([][]models.Finding, len(project.FileData))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzer.limit)
	for i, file := range project.FileData {
		g.Go(func() error {
			for _, key := range file.Keys {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := lookup.LookupKey(ctx, key.Key); err != nil {
					findings[i] = append(findings[i], models.Finding{
						RelativePath: file.RelativePath,
						Line:         key.Line + 1,
						Column:       column(file.Content, key.Start),
						Key:          key.Key,
						Reason:       Reason(err),
					})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.CheckReport{
		Files: len(project.FileData),
		Keys:  project.KeyCount(),
	}
	for _, fileFindings := range findings {
		report.Findings = append(report.Findings, fileFindings...)
	}
	sort.SliceStable(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.RelativePath != b.RelativePath {
			return a.RelativePath < b.RelativePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	return report, nil
}

// Reason turns a lookup error into a short label for reports.
func Reason(err error) string {
	switch {
	case errors.Is(err, language_service.ErrNoRoute):
		return "no resource for namespace"
	case errors.Is(err, json_resource.ErrKeyNotFound):
		return "missing translation"
	case errors.Is(err, json_resource.ErrUnsupportedValue):
		return "not a translation value"
	case errors.Is(err, json_resource.ErrUnreadable):
		return "resource unreadable"
	case errors.Is(err, json_resource.ErrInvalidResource):
		return "resource invalid"
	default:
		return err.Error()
	}
}

func column(content []byte, offset int) int {
	lineStart := offset
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	return offset - lineStart + 1
}
