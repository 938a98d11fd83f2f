// Package mcp provides an MCP (Model Context Protocol) server for jbgen.
// Agents send Java source text and get classifications, plans or the
// rewritten source back. Nothing is read from or written to disk.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/beanwright/jbgen/internal/engine"
	"github.com/beanwright/jbgen/internal/extract"
	"github.com/beanwright/jbgen/internal/output"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with jbgen-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	engine       *engine.Engine
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
	Options engine.Options
	Logger  *slog.Logger
}

// AllTools lists all available tools
var AllTools = []string{"jbgen_classify", "jbgen_plan", "jbgen_generate"}

// New creates a new MCP server for jbgen
func New(cfg Config) (*Server, error) {
	mcpServer := server.NewMCPServer(
		"jbgen",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		engine:       engine.New(cfg.Options, cfg.Logger),
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "jbgen_classify":
		return s.registerClassifyTool()
	case "jbgen_plan":
		return s.registerPlanTool()
	case "jbgen_generate":
		return s.registerGenerateTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "jbgen serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

var (
	sourceParam = ParameterSchema{Name: "source", Type: "string", Description: "Java compilation unit source text", Required: true}
	classParam  = ParameterSchema{Name: "class", Type: "string", Description: "Simple name of the class to generate for (default: first class)"}
	lineParam   = ParameterSchema{Name: "line", Type: "number", Description: "1-based line inside the class to generate for"}
)

// toolSchemaRegistry holds the schema definitions for all tools.
// These mirror the mcp.NewTool() definitions in the register*Tool() functions.
var toolSchemaRegistry = map[string]ToolSchema{
	"jbgen_classify": {
		Name:        "jbgen_classify",
		Description: "Classify every class in a Java file as JAVA_BEAN or BUSINESS_CLASS, with scores.",
		Parameters:  []ParameterSchema{sourceParam},
	},
	"jbgen_plan": {
		Name:        "jbgen_plan",
		Description: "Show which accessors and toString would be added or replaced, where, and whether a logger is injected.",
		Parameters:  []ParameterSchema{sourceParam, classParam, lineParam},
	},
	"jbgen_generate": {
		Name:        "jbgen_generate",
		Description: "Return the Java source with JavaBean accessors, toString and logger generated.",
		Parameters:  []ParameterSchema{sourceParam, classParam, lineParam},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the result text or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	source, _ := args["source"].(string)
	if source == "" {
		return "", fmt.Errorf("source parameter is required")
	}

	switch name {
	case "jbgen_classify":
		return s.executeClassify(ctx, source)
	case "jbgen_plan":
		return s.executePlan(ctx, source, targetFromArgs(args))
	case "jbgen_generate":
		return s.executeGenerate(ctx, source, targetFromArgs(args))
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func targetFromArgs(args map[string]any) *engine.Target {
	t := &engine.Target{}
	t.ClassName, _ = args["class"].(string)
	if l, ok := args["line"].(float64); ok {
		t.Line = int(l)
	}
	return t
}

// registerClassifyTool registers the jbgen_classify tool
func (s *Server) registerClassifyTool() error {
	tool := mcp.NewTool("jbgen_classify",
		mcp.WithDescription(toolSchemaRegistry["jbgen_classify"].Description),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description(sourceParam.Description),
		),
	)

	s.mcpServer.AddTool(tool, s.handle("jbgen_classify"))
	return nil
}

// registerPlanTool registers the jbgen_plan tool
func (s *Server) registerPlanTool() error {
	s.mcpServer.AddTool(targetedTool("jbgen_plan"), s.handle("jbgen_plan"))
	return nil
}

// registerGenerateTool registers the jbgen_generate tool
func (s *Server) registerGenerateTool() error {
	s.mcpServer.AddTool(targetedTool("jbgen_generate"), s.handle("jbgen_generate"))
	return nil
}

func targetedTool(name string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(toolSchemaRegistry[name].Description),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description(sourceParam.Description),
		),
		mcp.WithString("class",
			mcp.Description(classParam.Description),
		),
		mcp.WithNumber("line",
			mcp.Description(lineParam.Description),
		),
	)
}

// Tool handlers

func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

func (s *Server) executeClassify(ctx context.Context, source string) (string, error) {
	unit, err := extract.ParseUnit(ctx, "", []byte(source))
	if err != nil {
		return "", err
	}
	return output.NewYAMLFormatter().Format(output.NewClassifyOutput(unit))
}

func (s *Server) executePlan(ctx context.Context, source string, target *engine.Target) (string, error) {
	out, plan, err := s.engine.Generate(ctx, "", []byte(source), target)
	if err != nil {
		return "", err
	}
	return output.NewYAMLFormatter().Format(output.NewPlanOutput(plan, string(out) != source))
}

func (s *Server) executeGenerate(ctx context.Context, source string, target *engine.Target) (string, error) {
	out, _, err := s.engine.Generate(ctx, "", []byte(source), target)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
