package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound means the target id no longer exists remotely. For delete this
// is an already-satisfied condition, for update it is a hard failure.
var ErrNotFound = errors.New("record not found")

// NetworkError is a transport-level failure: the request never produced a
// usable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-success response not otherwise classified. Detail
// carries the raw response body when the store sent one.
type RemoteError struct {
	Op     string
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: remote returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: remote returned status %d: %s", e.Op, e.Status, e.Detail)
}
