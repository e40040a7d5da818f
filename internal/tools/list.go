// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/arbormcp/arbor/internal/memory"
)

// NewListChildrenTool creates the list_children tool definition
func NewListChildrenTool() mcp.Tool {
	return mcp.NewTool("list_children",
		mcp.WithDescription("List the direct children of the memory at a position, in insertion order. Listing does not count as an access."),
		mcp.WithArray("position",
			mcp.Required(),
			mcp.Description("Path of descriptions to the memory. Empty array for the root."),
		),
	)
}

// listResult is the success payload of list_children.
type listResult struct {
	Position memory.Position    `json:"position"`
	Children []*memory.Snapshot `json:"children"`
}

// ListChildrenHandler handles the list_children tool
func ListChildrenHandler(ctx *ToolContext) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(c context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := memory.Position(request.GetStringSlice("position", []string{}))

		children, err := ctx.Store.ListChildren(position)
		if err != nil {
			return resultError(err)
		}

		return resultJSON(listResult{Position: position, Children: children})
	}
}
