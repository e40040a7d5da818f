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

// NewEditMemoryTool creates the edit_memory tool definition
func NewEditMemoryTool() mcp.Tool {
	return mcp.NewTool("edit_memory",
		mcp.WithDescription("Edit the memory at a position. Only the supplied fields change; the description is not renameable. At least one field must be provided."),
		mcp.WithArray("position",
			mcp.Required(),
			mcp.Description("Path of descriptions to the memory. Empty array for the root."),
		),
		mcp.WithString("content",
			mcp.Description("New content"),
		),
		mcp.WithArray("tags",
			mcp.Description("New tags list, replacing the old one"),
		),
		mcp.WithString("author",
			mcp.Description("New author"),
		),
	)
}

// EditMemoryHandler handles the edit_memory tool
func EditMemoryHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := memory.Position(request.GetStringSlice("position", []string{}))

		// An omitted field and an explicit empty value mean different
		// things here, so check argument presence rather than defaults.
		args := request.GetArguments()
		var edit memory.Edit
		if _, ok := args["content"]; ok {
			content := request.GetString("content", "")
			edit.Content = &content
		}
		if _, ok := args["tags"]; ok {
			edit.Tags = request.GetStringSlice("tags", []string{})
		}
		if _, ok := args["author"]; ok {
			author := request.GetString("author", "")
			edit.Author = &author
		}

		snap, err := ctx.Store.Apply(position, edit)
		if err != nil {
			return resultError(err)
		}

		ctx.Logger.Debug("memory edited", zap.Stringer("position", position), zap.String("id", snap.ID))

		return resultJSON(snap)
	}
}
