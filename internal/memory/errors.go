// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra detail.
var (
	// ErrCannotRemoveRoot is returned when remove targets the empty position.
	ErrCannotRemoveRoot = errors.New("cannot remove the root memory")
	// ErrNoFieldsProvided is returned when edit is called with nothing to change.
	ErrNoFieldsProvided = errors.New("edit requires at least one of content, tags or author")
)

// PositionNotFoundError reports the first segment of a position that did not
// resolve, along with the prefix that did.
type PositionNotFoundError struct {
	Segment  string
	Resolved Position
}

func (e *PositionNotFoundError) Error() string {
	if len(e.Resolved) == 0 {
		return fmt.Sprintf("memory %q not found under root", e.Segment)
	}
	return fmt.Sprintf("memory %q not found at position %s", e.Segment, e.Resolved)
}

// DuplicateDescriptionError reports an add that would collide with an
// existing sibling.
type DuplicateDescriptionError struct {
	Description string
	Parent      Position
}

func (e *DuplicateDescriptionError) Error() string {
	return fmt.Sprintf("memory %q already exists at position %s", e.Description, e.Parent)
}

// ValidationError reports malformed input to node construction or
// deserialization.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid memory: " + e.Reason
}

// StorageError wraps a failure to read, write or parse the backing file.
// Callers can distinguish "applied in memory but not yet durable" from full
// success by checking for it after a mutating call.
type StorageError struct {
	Op   string // "load", "parse" or "save"
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Error kind strings reported to protocol clients.
const (
	KindPositionNotFound     = "position_not_found"
	KindDuplicateDescription = "duplicate_description"
	KindCannotRemoveRoot     = "cannot_remove_root"
	KindNoFieldsProvided     = "no_fields_provided"
	KindValidation           = "validation_error"
	KindStorage              = "storage_error"
)

// Kind classifies a store error into its protocol kind string. Unknown
// errors map to the storage kind, the only catch-all failure a caller can
// act on by retrying. A StorageError wrapping a ValidationError (an invalid
// backing file) is still a storage failure, so the storage case comes
// first.
func Kind(err error) string {
	var (
		notFound   *PositionNotFoundError
		duplicate  *DuplicateDescriptionError
		validation *ValidationError
		storage    *StorageError
	)
	switch {
	case errors.As(err, &storage):
		return KindStorage
	case errors.As(err, &notFound):
		return KindPositionNotFound
	case errors.As(err, &duplicate):
		return KindDuplicateDescription
	case errors.Is(err, ErrCannotRemoveRoot):
		return KindCannotRemoveRoot
	case errors.Is(err, ErrNoFieldsProvided):
		return KindNoFieldsProvided
	case errors.As(err, &validation):
		return KindValidation
	default:
		return KindStorage
	}
}
