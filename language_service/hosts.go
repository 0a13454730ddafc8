package language_service

import (
	"context"
	"os"

	"github.com/meysamhadeli/i18nav/language_service/models"
)

// NullLanguageService is a host with no answers of its own.
type NullLanguageService struct{}

func (NullLanguageService) GetDefinitionAndBoundSpan(context.Context, string, int) (*models.DefinitionInfoAndBoundSpan, error) {
	return nil, nil
}

func (NullLanguageService) GetQuickInfoAtPosition(context.Context, string, int) (*models.QuickInfo, error) {
	return nil, nil
}

// FileSourceProvider reads source files from disk.
type FileSourceProvider struct{}

func (FileSourceProvider) GetSourceText(fileName string) ([]byte, bool) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		log.Debugf("cannot read source %s: %s", fileName, err)
		return nil, false
	}
	return content, true
}
