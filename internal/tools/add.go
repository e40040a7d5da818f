// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/arbormcp/arbor/internal/memory"
)

// DefaultAuthor is recorded on memories added without an explicit author.
const DefaultAuthor = "user"

// NewAddMemoryTool creates the add_memory tool definition
func NewAddMemoryTool() mcp.Tool {
	return mcp.NewTool("add_memory",
		mcp.WithDescription("Add a new memory under an existing position. The position is the path of descriptions leading to the parent; an empty position means the root."),
		mcp.WithArray("position",
			mcp.Required(),
			mcp.Description("Path of descriptions to the parent memory. Empty array for the root."),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Short name for the memory, unique among its siblings"),
		),
		mcp.WithString("content",
			mcp.Description("Optional longer text content"),
		),
		mcp.WithArray("tags",
			mcp.Description("Optional labels for categorization"),
		),
		mcp.WithString("author",
			mcp.Description("Author of the memory (default: \"user\")"),
		),
	)
}

// addResult is the success payload of add_memory.
type addResult struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Position    memory.Position `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AddMemoryHandler handles the add_memory tool
func AddMemoryHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		description, err := request.RequireString("description")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		position := memory.Position(request.GetStringSlice("position", []string{}))
		content := request.GetString("content", "")
		tags := request.GetStringSlice("tags", []string{})
		author := request.GetString("author", DefaultAuthor)

		snap, err := ctx.Store.Add(position, description, content, tags, author)
		if err != nil {
			return resultError(err)
		}

		ctx.Logger.Debug("memory added",
			zap.String("id", snap.ID),
			zap.Stringer("position", position.Child(description)),
		)

		return resultJSON(addResult{
			ID:          snap.ID,
			Description: snap.Description,
			Position:    position.Child(description),
			CreatedAt:   snap.CreatedAt,
		})
	}
}
