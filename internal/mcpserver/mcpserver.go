package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/cgpa/internal/session"
)

// Server wraps the MCP server and registers the cgpa tools.
type Server struct {
	server *mcp.Server
	state  func() session.State
}

// Option configures a Server.
type Option func(*Server)

// WithState lets tools fall back to the saved session when a call passes
// no courses.
func WithState(fn func() session.State) Option {
	return func(s *Server) {
		s.state = fn
	}
}

// NewServer creates a new MCP server with all cgpa tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "cgpa",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// catalog is every tool the server registers, in registration order.
var catalog = []struct {
	name     string
	describe func() string
}{
	{"compute_cgpa", describeComputeCGPA},
	{"analyze_courses", describeAnalyzeCourses},
	{"validate_rows", describeValidateRows},
	{"grading_scale", describeGradingScale},
}

// ToolInfo summarizes one registered tool.
type ToolInfo struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Tools lists the registered tools with the first line of each description.
func Tools() []ToolInfo {
	out := make([]ToolInfo, len(catalog))
	for i, t := range catalog {
		summary, _, _ := strings.Cut(t.describe(), "\n")
		out[i] = ToolInfo{Name: t.name, Summary: summary}
	}
	return out
}

func toolDef(name string) *mcp.Tool {
	for _, t := range catalog {
		if t.name == name {
			return &mcp.Tool{Name: name, Description: t.describe()}
		}
	}
	panic("mcpserver: unknown tool " + name)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, toolDef("compute_cgpa"), s.handleComputeCGPA)
	mcp.AddTool(s.server, toolDef("analyze_courses"), s.handleAnalyzeCourses)
	mcp.AddTool(s.server, toolDef("validate_rows"), handleValidateRows)
	mcp.AddTool(s.server, toolDef("grading_scale"), handleGradingScale)
}
