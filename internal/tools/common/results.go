package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

// JSONResult returns v as indented JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ErrorResult turns a failed operation into a tool error result. Classified
// provider failures use their fixed message; anything else is rendered as
// "Error {action}: {err}", e.g. action "fetching events".
func ErrorResult(ctx context.Context, action string, err error) (*mcp.CallToolResult, error) {
	recordFailure(ctx, err)
	msg := schedule.ErrorMessage(err)
	if msg == "" {
		msg = fmt.Sprintf("Error %s: %v", action, err)
	}
	return mcp.NewToolResultError(msg), nil
}

// InvalidArgument rejects a request before any provider call is made.
func InvalidArgument(ctx context.Context, err error) (*mcp.CallToolResult, error) {
	recordFailure(ctx, fmt.Errorf("%w: %v", schedule.ErrInvalidArgument, err))
	return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
}
