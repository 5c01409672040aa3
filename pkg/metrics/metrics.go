package metrics

import (
	"strings"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

const (
	outcomeOK      = "ok"
	outcomeUnknown = "unknown"
)

// outcome maps an operation result to a bounded label value: "ok" or the
// lowercased error code.
func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return outcomeUnknown
}

func normalizeLabel(value string) string {
	if value == "" {
		return outcomeUnknown
	}
	return value
}
