package task_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/schedule-mcp/internal/instrumentation"
	"github.com/teemow/schedule-mcp/internal/schedule"
	"github.com/teemow/schedule-mcp/internal/server"
	"github.com/teemow/schedule-mcp/internal/tools/common"
)

var taskStatuses = []string{
	schedule.TaskStatusNotStarted,
	schedule.TaskStatusInProgress,
	schedule.TaskStatusDone,
	schedule.TaskStatusArchived,
	schedule.TaskStatusOverdue,
}

// MaxTaskResults caps limit on notion_get_tasks.
const MaxTaskResults = 100

// RegisterTaskTools registers the task tools with the MCP server.
// Tools that write to Notion are skipped in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getTasksTool := mcp.NewTool("notion_get_tasks",
		mcp.WithDescription("Query the Notion tasks database, sorted by due date"),
		mcp.WithString("status",
			mcp.Description("Filter by status: Not started, In progress, Done, Archived, or Overdue"),
			mcp.Enum(taskStatuses...),
		),
		mcp.WithString("due_before",
			mcp.Description("Only tasks due on or before this date (YYYY-MM-DD)"),
		),
		mcp.WithString("due_after",
			mcp.Description("Only tasks due on or after this date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum tasks to return (1-%d, default %d)", MaxTaskResults, common.DefaultLimit)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getTasksTool, common.InstrumentedToolHandlerWithService(
		"notion_get_tasks", instrumentation.ServiceNotion, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTasks(ctx, request, sc)
		}))

	getOverdueTool := mcp.NewTool("notion_get_overdue_tasks",
		mcp.WithDescription("List overdue tasks: tasks marked Overdue plus tasks whose due date has passed "+
			"and are not Done or Archived. Tasks marked Overdue are listed first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(getOverdueTool, common.InstrumentedToolHandlerWithService(
		"notion_get_overdue_tasks", instrumentation.ServiceNotion, instrumentation.OperationQuery, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetOverdueTasks(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTaskTool := mcp.NewTool("notion_create_task",
		mcp.WithDescription("Create a task in Notion"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task name"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
		mcp.WithString("status",
			mcp.Description("Initial status (default Not started)"),
			mcp.Enum(taskStatuses...),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithService(
		"notion_create_task", instrumentation.ServiceNotion, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))

	updateTaskTool := mcp.NewTool("notion_update_task",
		mcp.WithDescription("Update a Notion task. Only the supplied fields change; mark a task done with status 'Done'."),
		mcp.WithString("notion_id",
			mcp.Required(),
			mcp.Description("Notion page ID of the task"),
		),
		mcp.WithString("name",
			mcp.Description("New task name"),
		),
		mcp.WithString("status",
			mcp.Description("New status"),
			mcp.Enum(taskStatuses...),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date (YYYY-MM-DD)"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithService(
		"notion_update_task", instrumentation.ServiceNotion, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateTask(ctx, request, sc)
		}))

	return nil
}

type overdueResponse struct {
	Message string          `json:"message,omitempty"`
	Count   *int            `json:"count,omitempty"`
	Tasks   []schedule.Task `json:"tasks"`
}

func handleGetTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	var (
		filter schedule.TaskFilter
		err    error
	)
	if filter.Status, err = common.OneOf(request, "status", taskStatuses...); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.DueBefore, err = common.OptionalDateString(request, "due_before", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.DueAfter, err = common.OptionalDateString(request, "due_after", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if filter.Limit, err = common.IntInRange(request, common.ArgLimit, common.DefaultLimit, 1, MaxTaskResults); err != nil {
		return common.InvalidArgument(ctx, err)
	}

	tasks, err := svc.Records().QueryTasks(ctx, filter)
	if err != nil {
		return common.ErrorResult(ctx, "fetching tasks", err)
	}
	if tasks == nil {
		tasks = []schedule.Task{}
	}
	return common.JSONResult(tasks)
}

func handleGetOverdueTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	tasks, err := sc.Service().OverdueTasks(ctx)
	if err != nil {
		return common.ErrorResult(ctx, "fetching overdue tasks", err)
	}

	sc.Metrics().RecordScheduleFindings(ctx, instrumentation.FindingOverdueTask, "", len(tasks))

	if len(tasks) == 0 {
		return common.JSONResult(overdueResponse{Message: "No overdue tasks found.", Tasks: []schedule.Task{}})
	}
	count := len(tasks)
	return common.JSONResult(overdueResponse{Count: &count, Tasks: tasks})
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	name, err := request.RequireString("name")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if name == "" {
		return common.InvalidArgument(ctx, fmt.Errorf("name must not be empty"))
	}

	input := schedule.TaskInput{Name: name}
	if input.DueDate, err = common.OptionalDateString(request, "due_date", svc.Location()); err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if input.Status, err = common.OneOf(request, "status", taskStatuses...); err != nil {
		return common.InvalidArgument(ctx, err)
	}

	task, err := svc.Records().CreateTask(ctx, input)
	if err != nil {
		return common.ErrorResult(ctx, "creating task", err)
	}
	return common.JSONResult(task)
}

func handleUpdateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Service()

	notionID, err := request.RequireString("notion_id")
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}

	patch := schedule.TaskPatch{
		Name:    common.OptionalString(request, "name"),
		DueDate: common.OptionalString(request, "due_date"),
	}
	if patch.DueDate != nil && *patch.DueDate != "" {
		if _, err := svc.ParseDate(*patch.DueDate); err != nil {
			return common.InvalidArgument(ctx, fmt.Errorf("due_date must be a date in YYYY-MM-DD format, got %q", *patch.DueDate))
		}
	}
	status, err := common.OneOf(request, "status", taskStatuses...)
	if err != nil {
		return common.InvalidArgument(ctx, err)
	}
	if status != "" {
		patch.Status = schedule.StringPtr(status)
	}
	if patch.IsEmpty() {
		return common.InvalidArgument(ctx, fmt.Errorf("at least one of name, status or due_date is required"))
	}

	task, err := svc.Records().UpdateTask(ctx, notionID, patch)
	if err != nil {
		return common.ErrorResult(ctx, "updating task", err)
	}
	return common.JSONResult(task)
}
