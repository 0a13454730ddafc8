package embed_data

import _ "embed"

// TranslationKeyQuery recognizes the three source shapes that carry a translation key.
//
//go:embed queries/translation_key.scm
var TranslationKeyQuery []byte
