package schema

import "reflect"

// ConfigurationError reports invalid entity metadata, raised eagerly at
// resolution time rather than at first execution.
type ConfigurationError struct {
	Type reflect.Type
	Msg  string
}

func (e *ConfigurationError) Error() string {
	if e.Type == nil {
		return "schema: " + e.Msg
	}
	return "schema: " + e.Type.String() + ": " + e.Msg
}
