package decisions

import "errors"

var (
	// ErrMissingConversationID is returned when a record has no conversation id
	ErrMissingConversationID = errors.New("conversation id is required")

	// ErrRecordNotFound is returned when a decision record is not found
	ErrRecordNotFound = errors.New("decision record not found")
)
