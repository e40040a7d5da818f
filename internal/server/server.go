// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/arbormcp/arbor/internal/config"
	"github.com/arbormcp/arbor/internal/memory"
	"github.com/arbormcp/arbor/internal/tools"
)

// MCPServer wraps the mcp-go server with our configuration
type MCPServer struct {
	mcpServer *server.MCPServer
	config    *config.Config
	store     *memory.Store
	logger    *zap.Logger
}

// NewMCPServer creates a new MCP server instance and registers the memory
// tools against the given store.
func NewMCPServer(cfg *config.Config, store *memory.Store, logger *zap.Logger) *MCPServer {
	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
	)

	srv := &MCPServer{
		mcpServer: mcpServer,
		config:    cfg,
		store:     store,
		logger:    logger,
	}
	srv.registerTools()

	return srv
}

// registerTools registers the five memory tools.
func (s *MCPServer) registerTools() {
	toolCtx := tools.NewToolContext(s.store, s.logger)

	// add_memory: create a memory under a parent position
	s.mcpServer.AddTool(tools.NewAddMemoryTool(), tools.AddMemoryHandler(toolCtx))

	// read_memory: fetch one memory; also bumps its access metadata
	s.mcpServer.AddTool(tools.NewReadMemoryTool(), tools.ReadMemoryHandler(toolCtx))

	// list_children: browse the level below a position
	s.mcpServer.AddTool(tools.NewListChildrenTool(), tools.ListChildrenHandler(toolCtx))

	// edit_memory: change content/tags/author in place
	s.mcpServer.AddTool(tools.NewEditMemoryTool(), tools.EditMemoryHandler(toolCtx))

	// remove_memory: delete a memory and its subtree
	s.mcpServer.AddTool(tools.NewRemoveMemoryTool(), tools.RemoveMemoryHandler(toolCtx))
}

// GetMCPServer returns the underlying MCP server
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
