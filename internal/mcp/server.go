// Package mcp provides the stdio MCP server exposing spaces and memories as
// tools for coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/mind/internal/buildinfo"
	"github.com/go-ports/mind/internal/command"
	"github.com/go-ports/mind/internal/models"
	"github.com/go-ports/mind/internal/output"
	"github.com/go-ports/mind/internal/storage"
)

const commandDescription = `Run a mind command exactly as it would be typed after "mind" on the command line and return its output. Run ["help"] to list the commands. Examples: ["create", "project-x", "Notes about project X"], ["add", "project-x", "Tests need CGO"], ["reorder", "project-x", "3", "0"].`

const spacesDescription = `List every space with its position, description and number of memories.`

const readDescription = `Read one space: its description and its memories in order. Memory positions are 1-based, as used by the remove and reorder commands.`

// tools holds what the tool handlers share. Calls are serialized so a server
// process is a single writer of the brain document.
type tools struct {
	mu         sync.Mutex
	store      storage.Store
	dispatcher *command.Dispatcher
}

// NewServer creates and registers all mind tools on a new MCP server.
// It is separate from Serve so that tests can obtain a fully configured
// server without committing to the stdio transport.
func NewServer(store storage.Store, d *command.Dispatcher) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("mind", buildinfo.Version)
	registerTools(s, &tools{store: store, dispatcher: d})
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, store storage.Store, d *command.Dispatcher) error {
	return mcpserver.ServeStdio(NewServer(store, d))
}

// registerTools wires all three MCP tools into the server.
func registerTools(s *mcpserver.MCPServer, t *tools) {
	s.AddTool(mcp.NewTool("mind_command",
		mcp.WithDescription(commandDescription),
		mcp.WithArray("args",
			mcp.Description("Command tokens, e.g. [\"read\", \"project-x\"]."),
			mcp.WithStringItems(),
			mcp.Required(),
		),
	), t.handleCommand)

	s.AddTool(mcp.NewTool("mind_spaces",
		mcp.WithDescription(spacesDescription),
	), t.handleSpaces)

	s.AddTool(mcp.NewTool("mind_read",
		mcp.WithDescription(readDescription),
		mcp.WithString("space",
			mcp.Description("Space name."),
			mcp.Required(),
		),
	), t.handleRead)
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func (t *tools) handleCommand(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Missing args reach the dispatcher as an empty command line; items that
	// are not strings are rejected rather than dropped.
	args := make([]string, 0)
	if _, ok := req.GetArguments()["args"]; ok {
		var err error
		if args, err = req.RequireStringSlice("args"); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	var rec output.Recorder
	if err := t.dispatcher.Execute(args, t.store, &rec); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rec.String()), nil
}

func (t *tools) handleSpaces(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, err := t.store.GetBrain()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spaces := make([]map[string]any, 0, b.Len())
	for i, name := range b.Names() {
		s, _ := b.Space(name)
		spaces = append(spaces, map[string]any{
			"position":    i + 1,
			"name":        name,
			"description": s.Description,
			"memories":    len(s.Memories),
		})
	}
	return jsonResult(map[string]any{
		"total":  b.Len(),
		"spaces": spaces,
	})
}

func (t *tools) handleRead(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := req.GetString("space", "")
	b, err := t.store.GetBrain()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s, ok := b.Space(name)
	if !ok {
		return mcp.NewToolResultError(models.SpaceNotFound(name).Error()), nil
	}
	return jsonResult(map[string]any{
		"name":        name,
		"description": s.Description,
		"memories":    nonNil(s.Memories),
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return make([]string, 0)
	}
	return s
}
