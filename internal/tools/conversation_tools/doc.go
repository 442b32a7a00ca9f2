// Package conversation_tools implements the conversation history tools
// exposed over MCP: append_message records one turn of an agent
// conversation, and get_conversation_window reads back the most recent
// turns so the agent runtime can reconstruct context.
package conversation_tools
