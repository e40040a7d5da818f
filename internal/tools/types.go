// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/arbormcp/arbor/internal/memory"
)

// ToolContext holds shared dependencies for all tools.
type ToolContext struct {
	Store  *memory.Store
	Logger *zap.Logger
}

// NewToolContext creates a new tool context.
func NewToolContext(store *memory.Store, logger *zap.Logger) *ToolContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolContext{Store: store, Logger: logger}
}

// toolError is the structured error payload returned to protocol clients.
type toolError struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// resultJSON marshals a success payload into a text tool result.
func resultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resultError shapes a store error into a structured error result carrying
// its kind and message. Store failures are reported in-band, never as
// protocol-level errors.
func resultError(err error) (*mcp.CallToolResult, error) {
	payload := toolError{Kind: memory.Kind(err), Error: err.Error()}
	data, merr := json.Marshal(payload)
	if merr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}
