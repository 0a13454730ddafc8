package language_service

import (
	"context"

	"github.com/meysamhadeli/i18nav/language_service/contracts"
	"github.com/meysamhadeli/i18nav/language_service/models"
)

// DecoratedService wraps a host language service. Definition and quick info
// requests on translation keys are answered from resource files; everything
// else is the host's.
type DecoratedService struct {
	contracts.ILanguageService
	plugin  *Plugin
	sources contracts.ISourceProvider
}

// Decorate wraps host so that translation keys resolve to their resource entries.
func (p *Plugin) Decorate(host contracts.ILanguageService, sources contracts.ISourceProvider) *DecoratedService {
	return &DecoratedService{
		ILanguageService: host,
		plugin:           p,
		sources:          sources,
	}
}

func (d *DecoratedService) lookup(ctx context.Context, fileName string, position int) *Match {
	source, ok := d.sources.GetSourceText(fileName)
	if !ok {
		return nil
	}
	return d.plugin.Lookup(ctx, fileName, source, position)
}

// DefinitionAnswer returns the host's definition unless the position is on a
// resolvable translation key. A host error is returned only with the host's answer.
func (d *DecoratedService) DefinitionAnswer(ctx context.Context, fileName string, position int) (Answer[*models.DefinitionInfoAndBoundSpan], error) {
	prior, err := d.ILanguageService.GetDefinitionAndBoundSpan(ctx, fileName, position)

	match := d.lookup(ctx, fileName, position)
	if match == nil {
		return hostDefault(prior), err
	}

	return pluginAnswer(DefinitionFor(match)), nil
}

// QuickInfoAnswer is DefinitionAnswer for hover.
func (d *DecoratedService) QuickInfoAnswer(ctx context.Context, fileName string, position int) (Answer[*models.QuickInfo], error) {
	prior, err := d.ILanguageService.GetQuickInfoAtPosition(ctx, fileName, position)

	match := d.lookup(ctx, fileName, position)
	if match == nil {
		return hostDefault(prior), err
	}

	return pluginAnswer(QuickInfoFor(match)), nil
}

func (d *DecoratedService) GetDefinitionAndBoundSpan(ctx context.Context, fileName string, position int) (*models.DefinitionInfoAndBoundSpan, error) {
	answer, err := d.DefinitionAnswer(ctx, fileName, position)
	return answer.Value, err
}

func (d *DecoratedService) GetQuickInfoAtPosition(ctx context.Context, fileName string, position int) (*models.QuickInfo, error) {
	answer, err := d.QuickInfoAnswer(ctx, fileName, position)
	return answer.Value, err
}

// DefinitionFor points from the key literal to the value in the resource file.
func DefinitionFor(match *Match) *models.DefinitionInfoAndBoundSpan {
	return &models.DefinitionInfoAndBoundSpan{
		TextSpan: models.TextSpan{
			Start:  match.Key.Start,
			Length: match.Key.Length(),
		},
		Definitions: []models.DefinitionInfo{
			{
				FileName: match.Entry.ResourcePath,
				TextSpan: models.TextSpan{
					Start:  match.Entry.Start,
					Length: match.Entry.Length,
				},
				Kind:          models.ScriptElementKindMemberVariable,
				ContainerName: "json",
				ContainerKind: models.ScriptElementKindMemberVariable,
				Name:          match.Key.Key,
			},
		},
	}
}

// QuickInfoFor shows the translation text, spanning the value in the resource file.
func QuickInfoFor(match *Match) *models.QuickInfo {
	return &models.QuickInfo{
		Kind:          models.ScriptElementKindString,
		KindModifiers: "",
		TextSpan: models.TextSpan{
			Start:  match.Entry.Start,
			Length: match.Entry.Length,
		},
		DisplayParts: []models.SymbolDisplayPart{
			{Text: match.Entry.Raw, Kind: "text"},
		},
	}
}
