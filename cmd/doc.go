// Package cmd implements the command-line interface for tasklist.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide task tools for AI assistants
//   - task: Manage tasks directly from the command line
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
