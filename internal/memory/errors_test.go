// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{
			name: "position not found",
			err:  &PositionNotFoundError{Segment: "x"},
			kind: KindPositionNotFound,
		},
		{
			name: "duplicate description",
			err:  &DuplicateDescriptionError{Description: "x"},
			kind: KindDuplicateDescription,
		},
		{
			name: "cannot remove root",
			err:  ErrCannotRemoveRoot,
			kind: KindCannotRemoveRoot,
		},
		{
			name: "no fields provided",
			err:  ErrNoFieldsProvided,
			kind: KindNoFieldsProvided,
		},
		{
			name: "validation",
			err:  &ValidationError{Reason: "empty description"},
			kind: KindValidation,
		},
		{
			name: "storage",
			err:  &StorageError{Op: "save", Path: "m.json", Err: errors.New("disk full")},
			kind: KindStorage,
		},
		{
			name: "storage wrapping validation stays storage",
			err:  &StorageError{Op: "parse", Path: "m.json", Err: &ValidationError{Reason: "duplicate sibling"}},
			kind: KindStorage,
		},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("remove: %w", ErrCannotRemoveRoot),
			kind: KindCannotRemoveRoot,
		},
		{
			name: "unknown error",
			err:  errors.New("something else"),
			kind: KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
		})
	}
}
