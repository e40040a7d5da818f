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

// NewRemoveMemoryTool creates the remove_memory tool definition
func NewRemoveMemoryTool() mcp.Tool {
	return mcp.NewTool("remove_memory",
		mcp.WithDescription("Remove the memory at a position together with its entire subtree. The root cannot be removed."),
		mcp.WithArray("position",
			mcp.Required(),
			mcp.Description("Path of descriptions to the memory. Must not be empty."),
		),
	)
}

// RemoveMemoryHandler handles the remove_memory tool
func RemoveMemoryHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := memory.Position(request.GetStringSlice("position", []string{}))

		result, err := ctx.Store.Remove(position)
		if err != nil {
			return resultError(err)
		}

		ctx.Logger.Debug("memory removed",
			zap.Stringer("position", position),
			zap.Int("children_removed", result.ChildrenRemoved),
		)

		return resultJSON(result)
	}
}
