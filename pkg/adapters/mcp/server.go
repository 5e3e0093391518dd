package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/dto"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const typesURI = "concerto://types"

// Validator defines what the MCP server needs from the validator core.
type Validator interface {
	ValidateContext(ctx context.Context, source string, data []byte) error
	ValidateAs(data []byte, qualifiedName string) error
	Registry() *metamodel.Registry
}

// ValidateArgs are the arguments of the validate tool.
type ValidateArgs struct {
	Document string `json:"document"`
	Class    string `json:"class,omitempty"`
}

// DescribeArgs are the arguments of the describe_type tool.
type DescribeArgs struct {
	Name string `json:"name"`
}

// Server wraps a Validator and exposes it as an MCP Server.
type Server struct {
	validator Validator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(v Validator) *Server {
	s := &Server{
		validator: v,
		mcpServer: server.NewMCPServer("concerto-mcp", strings.TrimSpace(concerto.Version)),
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
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
	// TOOL: validate
	validateTool := mcp.NewTool("validate",
		mcp.WithDescription("Validate a JSON document against the loaded Concerto metamodel. Returns the first violation, if any."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The JSON document, as text")),
		mcp.WithString("class", mcp.Description("Require the document to be an instance of this type (optional)")),
		mcp.WithOutputSchema[dto.ValidationResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_types
	s.mcpServer.AddTool(mcp.NewTool("list_types",
		mcp.WithDescription("List every declared type with its kind, supertype and effective properties."),
	), s.handleListTypes)

	// TOOL: describe_type
	describeTool := mcp.NewTool("describe_type",
		mcp.WithDescription("Describe one declared type."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Qualified type name, or a bare name in the metamodel namespace")),
		mcp.WithOutputSchema[metamodel.TypeSummary](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribeType))
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (dto.ValidationResult, error) {
	if strings.TrimSpace(args.Document) == "" {
		return dto.ValidationResult{}, errors.New("document is required")
	}

	var err error
	if args.Class != "" {
		err = s.validator.ValidateAs([]byte(args.Document), s.validator.Registry().Qualify(args.Class))
	} else {
		err = s.validator.ValidateContext(ctx, "mcp", []byte(args.Document))
	}
	return dto.NewValidationResult(err), nil
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.validator.Registry().Summaries())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribeType(ctx context.Context, request mcp.CallToolRequest, args DescribeArgs) (metamodel.TypeSummary, error) {
	reg := s.validator.Registry()
	td, ok := reg.Lookup(reg.Qualify(args.Name))
	if !ok {
		return metamodel.TypeSummary{}, fmt.Errorf("type %q is not declared", args.Name)
	}
	return td.Summary(), nil
}

func (s *Server) registerResources() {
	// EXPOSE: concerto://types
	s.mcpServer.AddResource(mcp.NewResource(typesURI, "Declared Types",
		mcp.WithMIMEType("application/json"),
	), s.handleTypesResource)
}

func (s *Server) handleTypesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.validator.Registry().Summaries())
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      typesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
