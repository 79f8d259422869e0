package mcp

import (
	"github.com/ka2n/recview/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server for recview
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance backed by s
func NewServer(s *api.Service) *Server {
	srv := server.NewMCPServer("recview", api.Version)

	srv.AddTools(InitTools(s)...)

	return &Server{
		server: srv,
	}
}

// Run serves on stdio until the client disconnects
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
