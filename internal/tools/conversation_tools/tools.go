package conversation_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/taskpilot/tasklist/internal/instrumentation"
	"github.com/taskpilot/tasklist/internal/server"
	"github.com/taskpilot/tasklist/internal/store"
	"github.com/taskpilot/tasklist/internal/tools/common"
)

// RegisterConversationTools registers conversation history tools with the MCP server
func RegisterConversationTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Read back a window of conversation turns (always available)
	windowTool := mcp.NewTool("get_conversation_window",
		mcp.WithDescription("Read back the most recent turns of a conversation in chronological order"),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("conversation_id",
			mcp.Required(),
			mcp.Description("The conversation identifier (UUID)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Number of most recent turns to return (default: all)"),
		),
	)

	s.AddTool(windowTool, common.InstrumentedToolHandlerWithOperation("get_conversation_window", instrumentation.OperationWindow, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		owner := common.OwnerFromArgs(args)
		if owner <= 0 {
			return mcp.NewToolResultError("user_id is required"), nil
		}
		conversationID, _ := args["conversation_id"].(string)
		if conversationID == "" {
			return mcp.NewToolResultError("conversation_id is required"), nil
		}
		limit := int(common.Int64FromArgs(args, "limit"))

		messages, err := sc.Store().Window(ctx, conversationID, owner, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to read conversation: %v", err)), nil
		}

		payload, _ := json.MarshalIndent(messages, "", "  ")
		return mcp.NewToolResultText(string(payload)), nil
	}))

	if readOnly {
		return nil
	}

	// Append one conversation turn
	appendTool := mcp.NewTool("append_message",
		mcp.WithDescription("Append one turn to a conversation. Omit conversation_id to start a new conversation."),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("The ID of the acting user"),
		),
		mcp.WithString("conversation_id",
			mcp.Description("The conversation identifier (UUID); a new one is minted when absent"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("The speaker role: 'user', 'assistant', or 'system'"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The message content"),
		),
		mcp.WithString("tool_calls",
			mcp.Description("Optional JSON array describing tool calls made in this turn"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedToolHandlerWithOperation("append_message", instrumentation.OperationAppend, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		owner := common.OwnerFromArgs(args)
		if owner <= 0 {
			return mcp.NewToolResultError("user_id is required"), nil
		}

		roleArg, _ := args["role"].(string)
		role, err := store.ParseRole(roleArg)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		content, _ := args["content"].(string)
		if content == "" {
			return mcp.NewToolResultError("content is required"), nil
		}

		conversationID, _ := args["conversation_id"].(string)
		if conversationID == "" {
			conversationID = store.NewConversationID()
		}

		var toolCalls json.RawMessage
		if raw, ok := args["tool_calls"].(string); ok && raw != "" {
			if !json.Valid([]byte(raw)) {
				return mcp.NewToolResultError("tool_calls must be valid JSON"), nil
			}
			toolCalls = json.RawMessage(raw)
		}

		msg, err := sc.Store().AppendMessage(ctx, conversationID, owner, role, content, toolCalls)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to append message: %v", err)), nil
		}

		payload, _ := json.MarshalIndent(msg, "", "  ")
		return mcp.NewToolResultText(string(payload)), nil
	}))

	return nil
}
