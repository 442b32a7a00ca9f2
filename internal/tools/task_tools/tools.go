package task_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskpilot/tasklist/internal/dispatch"
	"github.com/taskpilot/tasklist/internal/instrumentation"
	"github.com/taskpilot/tasklist/internal/server"
	"github.com/taskpilot/tasklist/internal/tools/batch"
	"github.com/taskpilot/tasklist/internal/tools/common"
)

// taskRefFromArgs builds a task reference from the task_id / task_title
// argument pair. An empty ref is rejected by the dispatcher.
func taskRefFromArgs(args map[string]interface{}) dispatch.TaskRef {
	ref := dispatch.TaskRef{ID: common.Int64FromArgs(args, "task_id")}
	if title, ok := args["task_title"].(string); ok {
		ref.Title = title
	}
	return ref
}

// dispatchResult runs an operation through the dispatcher, records the
// dispatch outcome metric, and renders the result envelope.
func dispatchResult(ctx context.Context, sc *server.ServerContext, operation string, op dispatch.Operation) (*mcp.CallToolResult, error) {
	result := sc.Dispatcher().Dispatch(ctx, op)

	if metrics := sc.Metrics(); metrics != nil {
		status := instrumentation.StatusSuccess
		if !result.Success {
			status = instrumentation.StatusError
		}
		metrics.RecordDispatchOperation(ctx, operation, status, string(result.Code))
	}

	payload, _ := json.MarshalIndent(result, "", "  ")
	if !result.Success {
		return mcp.NewToolResultError(string(payload)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// RegisterTaskTools registers all task management tools with the MCP server
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register read tools: %w", err)
	}
	if !readOnly {
		if err := registerWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register write tools: %w", err)
		}
	}
	return nil
}

// registerReadTools registers tools that never mutate task state
func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTasksTool := mcp.NewTool("list_tasks",
		mcp.WithDescription("List the user's tasks with optional filters, search, sorting, and pagination"),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("status",
			mcp.Description("Completion filter: 'all', 'pending', or 'completed' (default: 'all')"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority filter: 'low', 'medium', or 'high'"),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring match over title and description"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags the task must carry (all of them)"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort field: 'created_at', 'updated_at', 'priority', or 'title' (default: 'created_at')"),
		),
		mcp.WithString("sort_order",
			mcp.Description("Sort order: 'asc' or 'desc' (default: 'desc')"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (default 50, max 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of tasks to skip for pagination"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithOperation("list_tasks", instrumentation.OperationList, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		params := dispatch.ListParams{
			Owner:  common.OwnerFromArgs(args),
			Tags:   common.StringListFromArgs(args, "tags"),
			Limit:  int(common.Int64FromArgs(args, "limit")),
			Offset: int(common.Int64FromArgs(args, "offset")),
		}
		if status, ok := args["status"].(string); ok {
			params.Status = dispatch.Status(status)
		}
		if priority, ok := args["priority"].(string); ok {
			params.Priority = priority
		}
		if search, ok := args["search"].(string); ok {
			params.Search = search
		}
		if sortBy, ok := args["sort_by"].(string); ok {
			params.SortBy = sortBy
		}
		if sortOrder, ok := args["sort_order"].(string); ok {
			params.SortOrder = sortOrder
		}

		return dispatchResult(ctx, sc, instrumentation.OperationList, params)
	}))

	return nil
}

// registerWriteTools registers tools that create, modify, or delete tasks
func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Add task tool
	addTaskTool := mcp.NewTool("add_task",
		mcp.WithDescription("Create a new task for the user"),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The task title (1-200 characters)"),
		),
		mcp.WithString("description",
			mcp.Description("Optional task description (up to 2000 characters)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority: 'low', 'medium', or 'high' (default: 'medium')"),
		),
		mcp.WithArray("tags",
			mcp.Description("Tags to attach to the task"),
		),
	)

	s.AddTool(addTaskTool, common.InstrumentedToolHandlerWithOperation("add_task", instrumentation.OperationAdd, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		params := dispatch.AddParams{
			Owner: common.OwnerFromArgs(args),
			Tags:  common.StringListFromArgs(args, "tags"),
		}
		if title, ok := args["title"].(string); ok {
			params.Title = title
		}
		if description, ok := args["description"].(string); ok {
			params.Description = description
		}
		if priority, ok := args["priority"].(string); ok {
			params.Priority = priority
		}

		return dispatchResult(ctx, sc, instrumentation.OperationAdd, params)
	}))

	// Complete task tool
	completeTaskTool := mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as complete. The task may be referenced by id or by exact title."),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithNumber("task_id",
			mcp.Description("The ID of the task to complete"),
		),
		mcp.WithString("task_title",
			mcp.Description("The exact title of the task to complete (used when task_id is absent)"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandlerWithOperation("complete_task", instrumentation.OperationComplete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		return dispatchResult(ctx, sc, instrumentation.OperationComplete, dispatch.CompleteParams{
			Owner: common.OwnerFromArgs(args),
			Ref:   taskRefFromArgs(args),
		})
	}))

	// Delete task tool
	deleteTaskTool := mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task permanently. The task may be referenced by id or by exact title."),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithNumber("task_id",
			mcp.Description("The ID of the task to delete"),
		),
		mcp.WithString("task_title",
			mcp.Description("The exact title of the task to delete (used when task_id is absent)"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandlerWithOperation("delete_task", instrumentation.OperationDelete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		return dispatchResult(ctx, sc, instrumentation.OperationDelete, dispatch.DeleteParams{
			Owner: common.OwnerFromArgs(args),
			Ref:   taskRefFromArgs(args),
		})
	}))

	// Update task tool
	updateTaskTool := mcp.NewTool("update_task",
		mcp.WithDescription("Update a task's title, description, priority, or tags. The task may be referenced by id or by exact title; at least one field to change is required."),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithNumber("task_id",
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("task_title",
			mcp.Description("The exact title of the task to update (used when task_id is absent)"),
		),
		mcp.WithString("title",
			mcp.Description("New title for the task"),
		),
		mcp.WithString("description",
			mcp.Description("New description for the task"),
		),
		mcp.WithString("priority",
			mcp.Description("New priority: 'low', 'medium', or 'high'"),
		),
		mcp.WithArray("tags",
			mcp.Description("Replacement tag set (empty array clears all tags)"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithOperation("update_task", instrumentation.OperationUpdate, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		params := dispatch.UpdateParams{
			Owner: common.OwnerFromArgs(args),
			Ref:   taskRefFromArgs(args),
			Tags:  common.StringListFromArgs(args, "tags"),
		}
		if title, ok := args["title"].(string); ok {
			params.Title = &title
		}
		if description, ok := args["description"].(string); ok {
			params.Description = &description
		}
		if priority, ok := args["priority"].(string); ok {
			params.Priority = &priority
		}

		return dispatchResult(ctx, sc, instrumentation.OperationUpdate, params)
	}))

	// Complete tasks batch tool
	completeTasksTool := mcp.NewTool("complete_tasks",
		mcp.WithDescription("Mark one or more tasks as complete by id"),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs to complete"),
		),
	)

	s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithOperation("complete_tasks", instrumentation.OperationComplete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		owner := common.OwnerFromArgs(args)

		taskIDs, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(taskIDs, func(id int64) (string, error) {
			result := sc.Dispatcher().Dispatch(ctx, dispatch.CompleteParams{
				Owner: owner,
				Ref:   dispatch.TaskRef{ID: id},
			})
			if !result.Success {
				return "", fmt.Errorf("%s", result.Message)
			}
			return result.Message, nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}))

	// Delete tasks batch tool
	deleteTasksTool := mcp.NewTool("delete_tasks",
		mcp.WithDescription("Delete one or more tasks by id"),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs to delete"),
		),
	)

	s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithOperation("delete_tasks", instrumentation.OperationDelete, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		owner := common.OwnerFromArgs(args)

		taskIDs, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results := batch.ProcessBatch(taskIDs, func(id int64) (string, error) {
			result := sc.Dispatcher().Dispatch(ctx, dispatch.DeleteParams{
				Owner: owner,
				Ref:   dispatch.TaskRef{ID: id},
			})
			if !result.Success {
				return "", fmt.Errorf("%s", result.Message)
			}
			return result.Message, nil
		})

		return mcp.NewToolResultText(batch.FormatResults(results)), nil
	}))

	return nil
}
