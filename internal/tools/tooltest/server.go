package tooltest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/config"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
)

// Now is the fixed clock used by NewServerContext: Wednesday 2025-06-11
// 10:00 UTC.
var Now = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

// NewServerContext returns a ServerContext over the given providers, with
// the UTC time zone and the clock fixed at Now.
func NewServerContext(t *testing.T, cal schedule.CalendarProvider, records schedule.RecordProvider, readOnly bool) *server.ServerContext {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.NotionToken = "secret_test"
	cfg.AppointmentsDBID = "appointments-db"
	cfg.TasksDBID = "tasks-db"
	cfg.Timezone = "UTC"
	cfg.ReadOnly = readOnly

	svc := schedule.NewService(cal, records, schedule.Options{
		Location:          time.UTC,
		DefaultCalendarID: cfg.DefaultCalendarID,
		Now:               func() time.Time { return Now },
	})

	sc, err := server.NewServerContext(context.Background(), cfg, svc)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// NewMCPServer returns an empty MCP server for tool registration.
func NewMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("schedule-mcp-test", "test", mcpserver.WithToolCapabilities(true))
}

// ToolNames returns the names of the registered tools.
func ToolNames(s *mcpserver.MCPServer) []string {
	names := make([]string, 0)
	for name := range s.ListTools() {
		names = append(names, name)
	}
	return names
}

// Call invokes a registered tool handler directly.
func Call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	tool, ok := s.ListTools()[name]
	if !ok {
		t.Fatalf("tool %q is not registered", name)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := tool.Handler(context.Background(), request)
	if err != nil {
		t.Fatalf("tool %q returned error: %v", name, err)
	}
	if result == nil {
		t.Fatalf("tool %q returned nil result", name)
	}
	return result
}

// Text returns the concatenated text content of a result.
func Text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	var out string
	for _, c := range result.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			out += tc.Text
		case *mcp.TextContent:
			out += tc.Text
		}
	}
	return out
}

// Decode unmarshals the text content of a successful result into v.
func Decode(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()

	if result.IsError {
		t.Fatalf("unexpected error result: %s", Text(t, result))
	}
	if err := json.Unmarshal([]byte(Text(t, result)), v); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, Text(t, result))
	}
}

// Server is an MCP server with tools registered against a test ServerContext.
type Server struct {
	t       *testing.T
	MCP     *mcpserver.MCPServer
	Context *server.ServerContext
}

// NewServer returns a Server whose tools are registered by register.
func NewServer(t *testing.T, cal schedule.CalendarProvider, records schedule.RecordProvider, readOnly bool, register func(*mcpserver.MCPServer, *server.ServerContext, bool) error) *Server {
	t.Helper()

	sc := NewServerContext(t, cal, records, readOnly)
	s := NewMCPServer()
	if err := register(s, sc, readOnly); err != nil {
		t.Fatalf("register tools: %v", err)
	}
	return &Server{t: t, MCP: s, Context: sc}
}

// Call invokes the named tool.
func (s *Server) Call(name string, args map[string]any) *mcp.CallToolResult {
	s.t.Helper()
	return Call(s.t, s.MCP, name, args)
}

// ToolNames returns the names of the registered tools.
func (s *Server) ToolNames() []string {
	return ToolNames(s.MCP)
}
