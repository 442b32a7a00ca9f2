// Package task_tools implements the task management tools exposed over MCP:
// add_task, list_tasks, complete_task, delete_task, update_task, and the
// batch variants complete_tasks and delete_tasks.
//
// Every tool routes through the operation dispatcher, which owns
// validation, reference resolution, and ownership checks; the tool layer
// only decodes arguments and renders the result envelope.
package task_tools
