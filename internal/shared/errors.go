package shared

import "errors"

// Resolution error taxonomy. Callers receive exactly one of these (or a
// complete record); optional facts never surface errors past the adapter.
var (
	// ErrInvalidIdentifier marks a malformed inbound identifier. Fatal,
	// never retried, and raised before any network call is attempted.
	ErrInvalidIdentifier = errors.New("invalid media identifier")

	// ErrUpstreamUnavailable marks a provider that stayed down through
	// the retry budget (5xx/429/timeouts).
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// ErrNotFound marks a well-formed identifier no provider recognizes.
	ErrNotFound = errors.New("media not found")

	// ErrBlocked marks an entity that resolved to a categorically
	// excluded type (disambiguation page, franchise, list page).
	ErrBlocked = errors.New("entity type is blocked")
)

// IsFatal reports whether err aborts a resolution outright rather than
// degrading it to a partial record.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBlocked)
}
