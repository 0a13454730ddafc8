package models

// ScriptElementKind values used in synthesized answers.
const (
	ScriptElementKindMemberVariable = "property"
	ScriptElementKindString         = "string"
)

// TextSpan is a byte range in a file.
type TextSpan struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

func (s TextSpan) End() int {
	return s.Start + s.Length
}

type DefinitionInfo struct {
	FileName      string   `json:"fileName"`
	TextSpan      TextSpan `json:"textSpan"`
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	ContainerKind string   `json:"containerKind"`
	ContainerName string   `json:"containerName"`
}

type DefinitionInfoAndBoundSpan struct {
	Definitions []DefinitionInfo `json:"definitions"`
	TextSpan    TextSpan         `json:"textSpan"`
}

type SymbolDisplayPart struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
}

type QuickInfo struct {
	Kind          string              `json:"kind"`
	KindModifiers string              `json:"kindModifiers"`
	TextSpan      TextSpan            `json:"textSpan"`
	DisplayParts  []SymbolDisplayPart `json:"displayParts"`
}

// DisplayText joins the display parts.
func (q *QuickInfo) DisplayText() string {
	var text string
	for _, part := range q.DisplayParts {
		text += part.Text
	}
	return text
}
