package notify

import "fmt"

// Kind classifies a workflow failure at the point it originates, so the
// HTTP layer never has to re-derive the outcome from message text.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindUpstream
	KindIncomplete
	KindSchema
)

// Error is a tagged workflow failure. Message is safe to return to the
// client; Err holds the underlying cause for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
