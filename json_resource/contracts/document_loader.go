package contracts

import (
	"context"

	"github.com/meysamhadeli/i18nav/json_resource"
)

type IDocumentLoader interface {
	Load(ctx context.Context, path string) (json_resource.Document, error)
}
