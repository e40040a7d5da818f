// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/arbormcp/arbor/internal/memory"
)

// NewReadMemoryTool creates the read_memory tool definition
func NewReadMemoryTool() mcp.Tool {
	return mcp.NewTool("read_memory",
		mcp.WithDescription("Read the memory at a position. Reading counts as an access: it increments the memory's access_count and updates last_accessed."),
		mcp.WithArray("position",
			mcp.Required(),
			mcp.Description("Path of descriptions to the memory. Empty array for the root."),
		),
	)
}

// ReadMemoryHandler handles the read_memory tool
func ReadMemoryHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := memory.Position(request.GetStringSlice("position", []string{}))

		snap, err := ctx.Store.Read(position)
		if err != nil {
			return resultError(err)
		}

		ctx.Logger.Debug("memory read",
			zap.Stringer("position", position),
			zap.Int("access_count", snap.AccessCount),
		)

		return resultJSON(snap)
	}
}
