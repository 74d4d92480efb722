package tgaz

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidParams marks errors caused by the caller's arguments.
	// Such errors are detected before any network call is made.
	ErrInvalidParams = errors.New("invalid params")

	// ErrMalformedPayload marks upstream payloads that cannot be read at all.
	ErrMalformedPayload = errors.New("malformed upstream payload")

	// ErrUnknownTool marks calls naming a tool outside Catalog.
	ErrUnknownTool = errors.New("unknown tool")
)

// invalidParamsf builds a caller-facing error marked with ErrInvalidParams.
func invalidParamsf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidParams)
}

// NotFound reports a missing place record as an invalid-params error.
func NotFound(id string) error {
	return invalidParamsf("No place record found for ID %s", id)
}

// UnknownTool reports a tool name that is not in Catalog.
func UnknownTool(name string) error {
	return errors.Mark(errors.Newf("Unknown tool: %s", name), ErrUnknownTool)
}
