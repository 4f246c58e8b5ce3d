package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/state"
)

// Runner serves the journal over MCP on stdio.
type Runner struct {
	Services *app.Services
	Name     string
	Version  string
	Options  []state.Option

	In  io.Reader
	Out io.Writer
}

// NewServer builds the MCP server with every journal tool and resource
// registered against svc.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read, write, organize and export journal entries and folders."),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// Do executes the runner until ctx is done or the input closes.
func (r Runner) Do(ctx context.Context) error {
	if r.Services == nil {
		return errors.New("mcp runner requires persistence")
	}
	name := r.Name
	if name == "" {
		name = "journal"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}
	in, out := r.In, r.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	svc := NewService(r.Services, r.Options...)
	defer svc.Close()

	return server.NewStdioServer(NewServer(name, version, svc)).Listen(ctx, in, out)
}
