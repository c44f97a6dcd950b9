package entity

import "fmt"

// FetchErrorKind classifies a per-chain fetch failure.
type FetchErrorKind string

const (
	// FetchErrConnection covers unreachable or timed-out endpoints.
	FetchErrConnection FetchErrorKind = "connection"
	// FetchErrQuery covers reachable endpoints returning malformed or
	// unexpected data.
	FetchErrQuery FetchErrorKind = "query"
)

// FetchError is the typed failure of a single chain fetch. It carries a
// technical detail for logs and a user-facing message for display. It is
// never fatal to the aggregation; the owning chain is simply marked
// unavailable for the cycle.
type FetchError struct {
	Chain       ChainID        `json:"chain"`
	Kind        FetchErrorKind `json:"kind"`
	Detail      string         `json:"detail"`
	UserMessage string         `json:"userMessage"`
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed (%s): %s", e.Chain, e.Kind, e.Detail)
}

// WalletUnavailableError means the extension is missing or the user declined
// the connection. It blocks session start and is surfaced directly; there is
// no automatic retry.
type WalletUnavailableError struct {
	Reason string
}

func (e *WalletUnavailableError) Error() string {
	return "wallet unavailable: " + e.Reason
}

// ValidationError rejects malformed user input before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
