package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerFoldersResource(srv, svc)
	registerFolderTemplate(srv, svc)
	registerEntryTemplate(srv, svc)
}

func registerFoldersResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"journal://folders",
		"Folders",
		mcp.WithResourceDescription("All journal folders with entry counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListFolders(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"folders": summaries,
			"count":   len(summaries),
		})
	})
}

func registerFolderTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"journal://folders/{name}",
		"Folder Entries",
		mcp.WithTemplateDescription("Entries filed in a folder."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request, "name")
		if name == "" {
			return nil, fmt.Errorf("folder name is required")
		}

		entries, err := svc.ListEntries(ctx, ListOptions{Folder: name})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"folder":  name,
			"count":   len(entries),
			"entries": entries,
		})
	})
}

func registerEntryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"journal://entries/{id}",
		"Entry",
		mcp.WithTemplateDescription("A single entry rendered as markdown."),
		mcp.WithTemplateMIMEType("text/markdown"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id")
		if id == "" {
			return nil, fmt.Errorf("entry id is required")
		}

		text, err := svc.Export(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	})
}

// templateArg reads a URI template variable; matched values arrive either as
// a string or a single-element list.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
