package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskpilot/tasklist/internal/dispatch"
	"github.com/taskpilot/tasklist/internal/store"
)

// newTaskCmd builds the "task" command group for managing tasks directly
// from the command line, without going through an MCP client.
func newTaskCmd() *cobra.Command {
	var (
		userID int64
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks from the command line",
		Long: `Manage tasks in the local SQLite database directly.

All subcommands require --user to identify whose task list to operate on.
Tasks can be referenced by numeric ID or by exact title.`,
	}

	cmd.PersistentFlags().Int64Var(&userID, "user", 0, "Numeric user ID that owns the task list (required)")
	cmd.PersistentFlags().StringVar(&dbPath, "db-path", "", "Path to the SQLite database file. Defaults to ~/.tasklist/tasks.db. Can also use TASKLIST_DB_PATH env var.")

	cmd.AddCommand(newTaskAddCmd(&userID, &dbPath))
	cmd.AddCommand(newTaskListCmd(&userID, &dbPath))
	cmd.AddCommand(newTaskCompleteCmd(&userID, &dbPath))
	cmd.AddCommand(newTaskDeleteCmd(&userID, &dbPath))
	cmd.AddCommand(newTaskUpdateCmd(&userID, &dbPath))

	return cmd
}

// withDispatcher opens the store, runs fn against a dispatcher, and closes
// the store again. CLI invocations are one-shot so there is no long-lived
// server context here.
func withDispatcher(dbPath string, fn func(ctx context.Context, d *dispatch.Dispatcher) error) error {
	if dbPath == "" {
		dbPath = os.Getenv("TASKLIST_DB_PATH")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return fn(context.Background(), dispatch.New(st, logger))
}

// taskRefFromArg interprets a positional argument as a task reference:
// numeric input is an ID, anything else is an exact title.
func taskRefFromArg(arg string) dispatch.TaskRef {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return dispatch.TaskRef{ID: id}
	}
	return dispatch.TaskRef{Title: arg}
}

// printResult prints the dispatch outcome. Failures become errors so that
// cobra reports them and the process exits non-zero.
func printResult(res *dispatch.Result) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println(res.Message)
	return nil
}

func printTask(task *store.Task) {
	status := " "
	if task.Completed {
		status = "x"
	}
	line := fmt.Sprintf("  [%s] #%d %s (%s)", status, task.ID, task.Title, task.Priority)
	if len(task.Tags) > 0 {
		line += " tags:"
		for i, tag := range task.Tags {
			if i > 0 {
				line += ","
			}
			line += tag
		}
	}
	fmt.Println(line)
}

func newTaskAddCmd(userID *int64, dbPath *string) *cobra.Command {
	var (
		description string
		priority    string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(*dbPath, func(ctx context.Context, d *dispatch.Dispatcher) error {
				return printResult(d.Dispatch(ctx, dispatch.AddParams{
					Owner:       *userID,
					Title:       args[0],
					Description: description,
					Priority:    priority,
					Tags:        parseCommaSeparatedList(tags),
				}))
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "", "Task priority: low, medium or high (default medium)")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated list of tags")

	return cmd
}

func newTaskListCmd(userID *int64, dbPath *string) *cobra.Command {
	var (
		status    string
		priority  string
		search    string
		tags      string
		sortBy    string
		sortOrder string
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(*dbPath, func(ctx context.Context, d *dispatch.Dispatcher) error {
				res := d.Dispatch(ctx, dispatch.ListParams{
					Owner:     *userID,
					Status:    dispatch.Status(status),
					Priority:  priority,
					Search:    search,
					Tags:      parseCommaSeparatedList(tags),
					SortBy:    sortBy,
					SortOrder: sortOrder,
					Limit:     limit,
					Offset:    offset,
				})
				if !res.Success {
					return fmt.Errorf("%s", res.Message)
				}

				fmt.Println(res.Message)
				if data, ok := res.Data.(*dispatch.ListData); ok {
					for _, task := range data.Tasks {
						printTask(task)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "Filter by status: all, pending or completed")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority: low, medium or high")
	cmd.Flags().StringVar(&search, "search", "", "Search in task titles and descriptions")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated list of tags to filter by")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort field: created_at, updated_at, priority, title or display_order")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "", "Sort order: asc or desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tasks to return (0 for no limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of tasks to skip")

	return cmd
}

func newTaskCompleteCmd(userID *int64, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id-or-title>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(*dbPath, func(ctx context.Context, d *dispatch.Dispatcher) error {
				return printResult(d.Dispatch(ctx, dispatch.CompleteParams{
					Owner: *userID,
					Ref:   taskRefFromArg(args[0]),
				}))
			})
		},
	}
}

func newTaskDeleteCmd(userID *int64, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-title>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(*dbPath, func(ctx context.Context, d *dispatch.Dispatcher) error {
				return printResult(d.Dispatch(ctx, dispatch.DeleteParams{
					Owner: *userID,
					Ref:   taskRefFromArg(args[0]),
				}))
			})
		},
	}
}

func newTaskUpdateCmd(userID *int64, dbPath *string) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "update <id-or-title>",
		Short: "Update fields of an existing task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := dispatch.UpdateParams{
				Owner: *userID,
				Ref:   taskRefFromArg(args[0]),
			}
			// Only flags the user actually set become updates; unset
			// fields keep their stored values.
			if cmd.Flags().Changed("title") {
				params.Title = &title
			}
			if cmd.Flags().Changed("description") {
				params.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				params.Priority = &priority
			}
			if cmd.Flags().Changed("tags") {
				params.Tags = parseCommaSeparatedList(tags)
				if params.Tags == nil {
					// An explicit empty --tags clears the tag list.
					params.Tags = []string{}
				}
			}

			return withDispatcher(*dbPath, func(ctx context.Context, d *dispatch.Dispatcher) error {
				return printResult(d.Dispatch(ctx, params))
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New task title")
	cmd.Flags().StringVar(&description, "description", "", "New task description")
	cmd.Flags().StringVar(&priority, "priority", "", "New task priority: low, medium or high")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated list of tags (replaces existing tags)")

	return cmd
}
