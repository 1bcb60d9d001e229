package validation

import (
	"fmt"
	"strings"
)

// Error carries field-specific validation messages. Handlers surface the
// field map directly so front-ends can point at the offending input.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
