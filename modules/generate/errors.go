package generate

import "fmt"

// RelayError is a generation failure with the HTTP status that should be
// mirrored to the browser client. The three constructors below are the only
// shapes a request can fail with: caller mistake, missing server credential,
// or a relayed upstream failure.
type RelayError struct {
	Status  int
	Message string
	Details string
}

func (e *RelayError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func validationError(format string, args ...any) *RelayError {
	return &RelayError{Status: 400, Message: fmt.Sprintf(format, args...)}
}

// configError is deliberately distinct from upstream errors so a missing
// server credential never reads like a provider outage.
func configError(detail string) *RelayError {
	return &RelayError{Status: 503, Message: "Server configuration error", Details: detail}
}

func upstreamError(status int, body string) *RelayError {
	return &RelayError{
		Status:  status,
		Message: fmt.Sprintf("Upstream error: status %d", status),
		Details: body,
	}
}
