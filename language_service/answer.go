package language_service

// Source tells whether an answer came from the host or from the translation lookup.
type Source int

const (
	HostDefault Source = iota
	PluginAnswer
)

func (s Source) String() string {
	switch s {
	case PluginAnswer:
		return "plugin"
	default:
		return "host"
	}
}

// Answer carries a query result together with who produced it. Every miss in the
// translation lookup yields the host's value unchanged.
type Answer[T any] struct {
	Value  T
	Source Source
}

func hostDefault[T any](value T) Answer[T] {
	return Answer[T]{Value: value, Source: HostDefault}
}

func pluginAnswer[T any](value T) Answer[T] {
	return Answer[T]{Value: value, Source: PluginAnswer}
}

// FromPlugin reports whether the translation lookup produced the value.
func (a Answer[T]) FromPlugin() bool {
	return a.Source == PluginAnswer
}
