package contracts

import (
	"context"

	"github.com/meysamhadeli/i18nav/language_service/models"
)

// ILanguageService answers navigation queries at a byte offset in a file.
// A nil answer with a nil error means "nothing here".
type ILanguageService interface {
	GetDefinitionAndBoundSpan(ctx context.Context, fileName string, position int) (*models.DefinitionInfoAndBoundSpan, error)
	GetQuickInfoAtPosition(ctx context.Context, fileName string, position int) (*models.QuickInfo, error)
}

// ISourceProvider returns the current text of a source file.
type ISourceProvider interface {
	GetSourceText(fileName string) ([]byte, bool)
}
