package contracts

import (
	"context"

	"github.com/meysamhadeli/i18nav/code_analyzer/models"
	"github.com/meysamhadeli/i18nav/json_resource"
)

// IKeyLookup resolves a translation key to its resource entry.
type IKeyLookup interface {
	LookupKey(ctx context.Context, key string) (*json_resource.Entry, error)
}

type ICodeAnalyzer interface {
	GetProjectFiles(ctx context.Context, rootDir string) (*models.FullContextData, error)
	CheckKeys(ctx context.Context, project *models.FullContextData, lookup IKeyLookup) (*models.CheckReport, error)
}
