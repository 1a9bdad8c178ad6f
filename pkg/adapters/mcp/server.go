// Package mcp exposes the engine as a Model Context Protocol server so
// agents can inspect and drive the element tree over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/axq-tools/axq/pkg/ax"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ElementsResponse carries a list of matched elements.
type ElementsResponse struct {
	Elements []format.ElementView `json:"elements" jsonschema_description:"Matching elements in pre-order"`
}

// ElementResponse carries one resolved element.
type ElementResponse struct {
	Element format.ElementView `json:"element" jsonschema_description:"The resolved element"`
}

// AttributesResponse carries the attribute map of one element.
type AttributesResponse struct {
	Path       string        `json:"path" jsonschema_description:"Path of the element"`
	Attributes []format.Attr `json:"attributes" jsonschema_description:"Attribute name/value pairs"`
}

// ActionResponse reports a performed action.
type ActionResponse struct {
	Status string `json:"status" jsonschema_description:"ok when the action was dispatched"`
	Action string `json:"action" jsonschema_description:"The action that ran"`
	Path   string `json:"path" jsonschema_description:"Path of the element acted on"`
}

// ApplicationsResponse lists running applications.
type ApplicationsResponse struct {
	Applications []AppEntry `json:"applications"`
}

// AppEntry is one running application.
type AppEntry struct {
	Name string `json:"name"`
	PID  int32  `json:"pid"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    *axq.Engine
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(engine *axq.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("axq-mcp", axq.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_applications
	s.mcpServer.AddTool(mcp.NewTool("list_applications",
		mcp.WithDescription("List the running applications visible to the accessibility provider."),
		mcp.WithOutputSchema[ApplicationsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListApplications))

	// TOOL: application_tree
	s.mcpServer.AddTool(mcp.NewTool("application_tree",
		mcp.WithDescription("Load the element tree of one application down to the given depth."),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("Process id of the application")),
		mcp.WithNumber("depth", mcp.Description("Levels to load; -1 for the full tree (default 3)")),
		mcp.WithOutputSchema[ElementResponse](),
	), mcp.NewStructuredToolHandler(s.handleApplicationTree))

	// TOOL: find_elements
	s.mcpServer.AddTool(mcp.NewTool("find_elements",
		mcp.WithDescription("Search an application's descendants by role and title substring."),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("Process id of the application")),
		mcp.WithString("role", mcp.Description("Role to match, case-insensitive (e.g. AXButton)")),
		mcp.WithString("title", mcp.Description("Title substring to match")),
		mcp.WithOutputSchema[ElementsResponse](),
	), mcp.NewStructuredToolHandler(s.handleFindElements))

	// TOOL: find_element_by_path
	s.mcpServer.AddTool(mcp.NewTool("find_element_by_path",
		mcp.WithDescription("Resolve a role[title]/role[title]/... path to one element, with its attributes and actions."),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("Process id of the application")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of role[title] segments separated by /")),
		mcp.WithOutputSchema[ElementResponse](),
	), mcp.NewStructuredToolHandler(s.handleFindElementByPath))

	// TOOL: element_attributes
	s.mcpServer.AddTool(mcp.NewTool("element_attributes",
		mcp.WithDescription("Read every attribute of the element at a path."),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("Process id of the application")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of role[title] segments separated by /")),
		mcp.WithOutputSchema[AttributesResponse](),
	), mcp.NewStructuredToolHandler(s.handleElementAttributes))

	// TOOL: perform_action
	s.mcpServer.AddTool(mcp.NewTool("perform_action",
		mcp.WithDescription("Perform an accessibility action (e.g. press, focus) on the element at a path."),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("Process id of the application")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of role[title] segments separated by /")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action name to perform")),
		mcp.WithOutputSchema[ActionResponse](),
	), mcp.NewStructuredToolHandler(s.handlePerformAction))

	// TOOL: focused_element
	s.mcpServer.AddTool(mcp.NewTool("focused_element",
		mcp.WithDescription("Return the deepest focused element of the frontmost application."),
		mcp.WithOutputSchema[ElementResponse](),
	), mcp.NewStructuredToolHandler(s.handleFocusedElement))
}

func (s *Server) handleListApplications(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ApplicationsResponse, error) {
	apps, err := s.engine.Applications(ctx)
	if err != nil {
		return ApplicationsResponse{}, fmt.Errorf("listing applications: %w", err)
	}
	resp := ApplicationsResponse{Applications: make([]AppEntry, 0, len(apps))}
	for _, a := range apps {
		resp.Applications = append(resp.Applications, AppEntry{Name: a.Name, PID: a.PID})
	}
	return resp, nil
}

func (s *Server) handleApplicationTree(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElementResponse, error) {
	pid, err := pidArg(args)
	if err != nil {
		return ElementResponse{}, err
	}
	depth := 3
	if d, ok := args["depth"].(float64); ok {
		depth = int(d)
	}

	root, err := s.engine.ApplicationTree(ctx, pid)
	if err != nil {
		return ElementResponse{}, fmt.Errorf("loading application tree: %w", err)
	}
	if err := root.LoadSubtree(ctx, depth); err != nil {
		return ElementResponse{}, fmt.Errorf("loading subtree: %w", err)
	}
	return ElementResponse{Element: format.NewView(root, true)}, nil
}

func (s *Server) handleFindElements(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElementsResponse, error) {
	pid, err := pidArg(args)
	if err != nil {
		return ElementsResponse{}, err
	}
	role, _ := args["role"].(string)
	title, _ := args["title"].(string)

	root, err := s.engine.ApplicationTree(ctx, pid)
	if err != nil {
		return ElementsResponse{}, fmt.Errorf("loading application tree: %w", err)
	}
	matches, err := s.engine.FindElements(ctx, root, role, title)
	if err != nil {
		return ElementsResponse{}, fmt.Errorf("search failed: %w", err)
	}

	resp := ElementsResponse{Elements: make([]format.ElementView, 0, len(matches))}
	for _, el := range matches {
		v := format.NewView(el, false)
		v.Path = el.DisplayPath()
		resp.Elements = append(resp.Elements, v)
	}
	return resp, nil
}

func (s *Server) handleFindElementByPath(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElementResponse, error) {
	el, err := s.resolve(ctx, args)
	if err != nil {
		return ElementResponse{}, err
	}

	v := format.NewView(el, false)
	v.Path = el.DisplayPath()
	if attrs, err := s.engine.ElementAttributes(ctx, el); err == nil {
		v.Attributes = format.AttrsFromMap(attrs)
	}
	if actions, err := s.engine.AvailableActions(ctx, el); err == nil {
		v.Actions = actions
	}
	return ElementResponse{Element: v}, nil
}

func (s *Server) handleElementAttributes(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AttributesResponse, error) {
	el, err := s.resolve(ctx, args)
	if err != nil {
		return AttributesResponse{}, err
	}
	attrs, err := s.engine.ElementAttributes(ctx, el)
	if err != nil {
		return AttributesResponse{}, fmt.Errorf("reading attributes: %w", err)
	}
	return AttributesResponse{
		Path:       el.DisplayPath(),
		Attributes: format.AttrsFromMap(attrs),
	}, nil
}

func (s *Server) handlePerformAction(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ActionResponse, error) {
	action, _ := args["action"].(string)
	el, err := s.resolve(ctx, args)
	if err != nil {
		return ActionResponse{}, err
	}
	if err := s.engine.PerformAction(ctx, el, action); err != nil {
		return ActionResponse{}, fmt.Errorf("action failed: %w", err)
	}
	return ActionResponse{Status: "ok", Action: action, Path: el.DisplayPath()}, nil
}

func (s *Server) handleFocusedElement(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ElementResponse, error) {
	el, err := s.engine.FocusedElement(ctx)
	if err != nil {
		return ElementResponse{}, fmt.Errorf("reading focused element: %w", err)
	}
	v := format.NewView(el, false)
	v.Path = el.DisplayPath()
	return ElementResponse{Element: v}, nil
}

func (s *Server) resolve(ctx context.Context, args map[string]interface{}) (*ax.Element, error) {
	pid, err := pidArg(args)
	if err != nil {
		return nil, err
	}
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	root, err := s.engine.ApplicationTree(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("loading application tree: %w", err)
	}
	el, err := s.engine.FindElementByPath(ctx, root, path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return el, nil
}

func pidArg(args map[string]interface{}) (int32, error) {
	pid, ok := args["pid"].(float64)
	if !ok || pid == 0 {
		return 0, fmt.Errorf("pid is required")
	}
	return int32(pid), nil
}

func (s *Server) registerResources() {
	// EXPOSE: axq://applications
	s.mcpServer.AddResource(mcp.NewResource("axq://applications", "Running Applications",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		apps, err := s.engine.Applications(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list applications: %w", err)
		}
		entries := make([]AppEntry, 0, len(apps))
		for _, a := range apps {
			entries = append(entries, AppEntry{Name: a.Name, PID: a.PID})
		}
		jsonBytes, _ := json.Marshal(entries)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "axq://applications",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
