// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package integration

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arbormcp/arbor/internal/memory"
	"github.com/arbormcp/arbor/internal/tools"
)

// testSetup creates a store backed by a temp file and a tool context over it.
type testSetup struct {
	StorePath string
	Store     *memory.Store
	ToolCtx   *tools.ToolContext
}

func setupTestEnvironment(t *testing.T) *testSetup {
	t.Helper()
	storePath := filepath.Join(t.TempDir(), "memories.json")

	store, err := memory.Open(storePath)
	require.NoError(t, err)

	return &testSetup{
		StorePath: storePath,
		Store:     store,
		ToolCtx:   tools.NewToolContext(store, zap.NewNop()),
	}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

// TestMemoryLifecycle walks the full tool surface end to end: build a small
// tree, read it back, reshape it, tear part of it down, and restart from
// the persisted file.
func TestMemoryLifecycle(t *testing.T) {
	env := setupTestEnvironment(t)

	addHandler := tools.AddMemoryHandler(env.ToolCtx)
	readHandler := tools.ReadMemoryHandler(env.ToolCtx)
	listHandler := tools.ListChildrenHandler(env.ToolCtx)
	editHandler := tools.EditMemoryHandler(env.ToolCtx)
	removeHandler := tools.RemoveMemoryHandler(env.ToolCtx)

	// Step 1: build projects/mcp and projects/cli
	t.Log("--- Step 1: build the tree ---")
	for _, mem := range []map[string]any{
		{"position": []any{}, "description": "projects", "content": "active work"},
		{"position": []any{"projects"}, "description": "mcp", "content": "notes", "tags": []any{"protocol"}},
		{"position": []any{"projects"}, "description": "cli", "author": "ada"},
	} {
		text, isErr := call(t, addHandler, mem)
		require.False(t, isErr, "add failed: %s", text)
	}

	// Step 2: read increments access metadata
	t.Log("--- Step 2: read is a touch ---")
	text, isErr := call(t, readHandler, map[string]any{"position": []any{"projects", "mcp"}})
	require.False(t, isErr)
	var snap memory.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snap))
	assert.Equal(t, "notes", snap.Content)
	assert.Equal(t, 1, snap.AccessCount)

	// Step 3: listing does not touch
	t.Log("--- Step 3: list children ---")
	text, isErr = call(t, listHandler, map[string]any{"position": []any{"projects"}})
	require.False(t, isErr)
	var listed struct {
		Children []*memory.Snapshot `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &listed))
	require.Len(t, listed.Children, 2)
	assert.Equal(t, "mcp", listed.Children[0].Description)
	assert.Equal(t, "cli", listed.Children[1].Description)
	assert.Equal(t, 1, listed.Children[0].AccessCount)

	// Step 4: edit tags only, everything else untouched
	t.Log("--- Step 4: edit in place ---")
	text, isErr = call(t, editHandler, map[string]any{
		"position": []any{"projects", "mcp"},
		"tags":     []any{"x"},
	})
	require.False(t, isErr)
	require.NoError(t, json.Unmarshal([]byte(text), &snap))
	assert.Equal(t, []string{"x"}, snap.Tags)
	assert.Equal(t, "notes", snap.Content)

	// Step 5: remove the subtree, then resolution fails beneath it
	t.Log("--- Step 5: remove subtree ---")
	text, isErr = call(t, removeHandler, map[string]any{"position": []any{"projects"}})
	require.False(t, isErr)
	var removed memory.RemoveResult
	require.NoError(t, json.Unmarshal([]byte(text), &removed))
	assert.Equal(t, 2, removed.ChildrenRemoved)

	text, isErr = call(t, readHandler, map[string]any{"position": []any{"projects", "mcp"}})
	require.True(t, isErr)
	assert.Contains(t, text, "position_not_found")

	// Step 6: a fresh store over the same file sees the final state
	t.Log("--- Step 6: restart from the persisted file ---")
	reopened, err := memory.Open(env.StorePath)
	require.NoError(t, err)
	children, err := reopened.ListChildren(memory.Position{})
	require.NoError(t, err)
	assert.Empty(t, children)
}

// TestErrorShapes checks that every tool reports failures as structured
// errors with a kind the client can dispatch on.
func TestErrorShapes(t *testing.T) {
	env := setupTestEnvironment(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		kind    string
	}{
		{
			name:    "add to missing parent",
			handler: tools.AddMemoryHandler(env.ToolCtx),
			args:    map[string]any{"position": []any{"nowhere"}, "description": "x"},
			kind:    "position_not_found",
		},
		{
			name:    "remove root",
			handler: tools.RemoveMemoryHandler(env.ToolCtx),
			args:    map[string]any{"position": []any{}},
			kind:    "cannot_remove_root",
		},
		{
			name:    "edit without fields",
			handler: tools.EditMemoryHandler(env.ToolCtx),
			args:    map[string]any{"position": []any{}},
			kind:    "no_fields_provided",
		},
		{
			name:    "add empty description",
			handler: tools.AddMemoryHandler(env.ToolCtx),
			args:    map[string]any{"position": []any{}, "description": ""},
			kind:    "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.args)
			require.True(t, isErr)

			var payload struct {
				Kind  string `json:"kind"`
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &payload))
			assert.Equal(t, tt.kind, payload.Kind)
			assert.NotEmpty(t, payload.Error)
		})
	}
}
