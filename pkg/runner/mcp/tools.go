package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/entry"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerCreateEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerListFoldersTool(srv, svc)
	registerCreateFolderTool(srv, svc)
	registerRenameFolderTool(srv, svc)
	registerDeleteFolderTool(srv, svc)
	registerExportTool(srv, svc)
}

func colorNames() []string {
	palette := entry.Palette()
	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = string(c)
	}
	return out
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List journal entries, optionally filtered by folder or color."),
		mcp.WithString("folder",
			mcp.Description("Folder name or id to filter by."),
		),
		mcp.WithBoolean("unfiled",
			mcp.Description("Only entries that are not in a folder."),
		),
		mcp.WithString("color",
			mcp.Description("Only entries tagged with this color."),
			mcp.Enum(colorNames()...),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := ListOptions{
			Folder:  strings.TrimSpace(request.GetString("folder", "")),
			Unfiled: request.GetBool("unfiled", false),
			Color:   request.GetString("color", ""),
		}
		results, err := svc.ListEntries(ctx, opts)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(map[string]any{
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search entries by substring match across titles and content."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return failed(err)
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchEntries(ctx, query, limit)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by id or unique id prefix."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return failed(err)
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(dto)
	})
}

func registerCreateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_entry",
		mcp.WithDescription("Create a new journal entry."),
		mcp.WithString("title",
			mcp.Description("Entry title; may be empty."),
		),
		mcp.WithString("content",
			mcp.Description("Markdown body of the entry."),
		),
		mcp.WithString("color",
			mcp.Description("Optional color tag."),
			mcp.Enum(colorNames()...),
		),
		mcp.WithString("folder",
			mcp.Description("Optional folder name or id to file the entry under."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Color   string `json:"color"`
			Folder  string `json:"folder"`
		}
		if err := request.BindArguments(&args); err != nil {
			return failed(fmt.Errorf("invalid arguments: %w", err))
		}

		dto, err := svc.CreateEntry(ctx, CreateEntryOptions(args))
		if err != nil {
			return failed(err)
		}
		return toJSONResult(dto)
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_entry",
		mcp.WithDescription("Change fields of an entry. Omitted fields are left alone; an empty folder unfiles the entry and an empty color clears it."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to modify."),
		),
		mcp.WithString("title",
			mcp.Description("New title."),
		),
		mcp.WithString("content",
			mcp.Description("New markdown body."),
		),
		mcp.WithString("color",
			mcp.Description("New color tag."),
		),
		mcp.WithString("folder",
			mcp.Description("Folder name or id to move the entry to."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return failed(err)
		}
		var opts UpdateEntryOptions
		if err := request.BindArguments(&opts); err != nil {
			return failed(fmt.Errorf("invalid arguments: %w", err))
		}

		dto, err := svc.UpdateEntry(ctx, id, opts)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(dto)
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete an entry. Requires confirm=true."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to delete."),
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true; the delete cannot be undone."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return failed(err)
		}

		dto, err := svc.DeleteEntry(ctx, id, request.GetBool("confirm", false))
		if err != nil {
			return failed(err)
		}
		return toJSONResult(map[string]any{"deleted": dto})
	})
}

func registerListFoldersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_folders",
		mcp.WithDescription("List all folders with entry counts."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := svc.ListFolders(ctx)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(map[string]any{
			"folders": summaries,
			"count":   len(summaries),
		})
	})
}

func registerCreateFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_folder",
		mcp.WithDescription("Create a folder."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return failed(err)
		}

		sum, err := svc.CreateFolder(ctx, name)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(sum)
	})
}

func registerRenameFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rename_folder",
		mcp.WithDescription("Rename a folder."),
		mcp.WithString("folder",
			mcp.Required(),
			mcp.Description("Folder name or id to rename."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New folder name."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("folder")
		if err != nil {
			return failed(err)
		}
		name, err := request.RequireString("name")
		if err != nil {
			return failed(err)
		}

		sum, err := svc.RenameFolder(ctx, ref, name)
		if err != nil {
			return failed(err)
		}
		return toJSONResult(sum)
	})
}

func registerDeleteFolderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_folder",
		mcp.WithDescription("Delete a folder; its entries become unfiled. Requires confirm=true."),
		mcp.WithString("folder",
			mcp.Required(),
			mcp.Description("Folder name or id to delete."),
		),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("folder")
		if err != nil {
			return failed(err)
		}

		sum, err := svc.DeleteFolder(ctx, ref, request.GetBool("confirm", false))
		if err != nil {
			return failed(err)
		}
		return toJSONResult(map[string]any{"deleted": sum})
	})
}

func registerExportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_entries",
		mcp.WithDescription("Render entries as a markdown document. Without ids every entry is exported."),
		mcp.WithString("ids",
			mcp.Description("Space or comma separated entry ids."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refs := strings.FieldsFunc(request.GetString("ids", ""), func(r rune) bool {
			return r == ',' || r == ' '
		})

		text, err := svc.Export(ctx, refs)
		if err != nil {
			return failed(err)
		}
		return mcp.NewToolResultText(text), nil
	})
}

// failed reports err to the client as a tool error rather than a protocol
// error.
func failed(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return failed(fmt.Errorf("marshal: %w", err))
	}
	return mcp.NewToolResultText(string(b)), nil
}
