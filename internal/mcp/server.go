package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/crateskel/internal/provider"
	"github.com/jcdickinson/crateskel/internal/search"
	"github.com/jcdickinson/crateskel/internal/skeleton"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	service   *skeleton.Service
	client    *provider.Client
}

func NewServer(service *skeleton.Service, client *provider.Client) *Server {
	s := &Server{service: service, client: client}

	mcpServer := server.NewMCPServer(
		"crateskel",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("skeleton",
			mcp.WithDescription("Render the API skeleton of a Rust crate or item as syntactically valid Rust with implementations omitted. The target accepts crate[@version][::path::to::item]; std paths like std::vec::Vec work too. Pass `query` to restrict output to matching items."),
			mcp.WithString("target",
				mcp.Description("Target specification, e.g. \"serde\", \"tokio@1.38::sync::mpsc\", \"std::vec::Vec\""),
				mcp.Required(),
			),
			mcp.WithString("query",
				mcp.Description("Optional substring search; only matching items and their containers render"),
			),
			mcp.WithArray("domains",
				mcp.Description("Search domains: name, doc, path, signature (default: name, doc, signature)"),
				mcp.Items(map[string]interface{}{"type": "string"}),
			),
			mcp.WithBoolean("case_sensitive",
				mcp.Description("Match the query case-sensitively"),
			),
			mcp.WithBoolean("direct_match_only",
				mcp.Description("Render matched modules, structs, and traits as shells instead of expanding their contents"),
			),
			mcp.WithBoolean("private",
				mcp.Description("Include non-public items"),
			),
			mcp.WithBoolean("auto_impls",
				mcp.Description("Include compiler-synthesized trait impls"),
			),
			mcp.WithBoolean("blanket_impls",
				mcp.Description("Include blanket trait impls"),
			),
		),
		s.handleSkeleton,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_items",
			mcp.WithDescription("List every public item of a crate as (kind, path) rows without rendering bodies. Useful to discover paths before requesting a focused skeleton."),
			mcp.WithString("target",
				mcp.Description("Target specification, e.g. \"serde\" or \"serde@1.0.160\""),
				mcp.Required(),
			),
		),
		s.handleListItems,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_crates",
			mcp.WithDescription("Search crates.io for Rust crates by name or keyword."),
			mcp.WithString("query",
				mcp.Description("Search query (crate name or keyword)"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchCrates,
	)
}

func (s *Server) handleSkeleton(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	target, _ := args["target"].(string)
	if target == "" {
		return mcp.NewToolResultError("missing required parameter: target"), nil
	}

	skelReq := skeleton.Request{Target: target}
	if query, ok := args["query"].(string); ok {
		skelReq.Query = query
	}
	if domainsRaw, ok := args["domains"]; ok {
		domainsJSON, _ := json.Marshal(domainsRaw)
		json.Unmarshal(domainsJSON, &skelReq.Domains)
	}
	skelReq.CaseSensitive, _ = args["case_sensitive"].(bool)
	skelReq.DirectMatchOnly, _ = args["direct_match_only"].(bool)
	skelReq.Private, _ = args["private"].(bool)
	skelReq.AutoImpls, _ = args["auto_impls"].(bool)
	skelReq.BlanketImpls, _ = args["blanket_impls"].(bool)

	out, warnings, err := s.service.Render(ctx, skelReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering skeleton: %v", err)), nil
	}
	if len(warnings) > 0 {
		out += "\n// warnings:\n"
		for _, w := range warnings {
			out += "//   " + w + "\n"
		}
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	target, _ := args["target"].(string)
	if target == "" {
		return mcp.NewToolResultError("missing required parameter: target"), nil
	}

	rows, err := s.service.List(ctx, target, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing items: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(search.FormatList(rows), "\n")), nil
}

func (s *Server) handleSearchCrates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := 0
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	results, err := s.client.SearchCratesIO(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
