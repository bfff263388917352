package contracts

import (
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/errors"
)

// DiagnosticLogger records the unredacted original of every intercepted error.
type DiagnosticLogger interface {
	// Log records the failure for the given request.
	// Implementations must not block the response path and must not return sink failures to the caller.
	Log(meta domain.RequestMeta, f errors.Failure)
}
