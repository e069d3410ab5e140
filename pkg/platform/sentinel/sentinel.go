// Package sentinel holds the errors stores return for facts about records.
// Services translate them into pkg/domain-errors codes; validation failures
// never pass through here.
package sentinel

import "errors"

var (
	// ErrNotFound: no record with the given key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed: a unique slot (badge grant, thank-you note, active
	// response, record id) is already taken.
	ErrAlreadyUsed = errors.New("already used")
	// ErrInvalidState: the record exists but its state forbids the write.
	ErrInvalidState = errors.New("invalid state")
)
