package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/beanwright/jbgen/internal/mcp"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

Agents pass Java source text to the tools and get the classification, the
generation plan or the rewritten source back. The server never reads or
writes files; generation settings come from .jbgen/config.yaml.

Available Tools:
  jbgen_classify   Classify every class in the source
  jbgen_plan       Show what generation would change
  jbgen_generate   Return the rewritten source`,
	Example: `  jbgen serve --mcp
  jbgen serve --mcp --tools classify,generate
  jbgen serve --mcp --timeout 0
  jbgen serve --list-tools`,
	RunE: runServe,
}

var (
	serveMCP       bool
	serveTools     string
	serveTimeout   string
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Start MCP server (stdio transport)")
	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListTools {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Available MCP tools:")
		fmt.Fprintln(w)
		for _, name := range mcp.AllTools {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return nil
	}

	if !serveMCP {
		return fmt.Errorf("use --mcp to start the MCP server, or --help for usage")
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	_, opts, err := loadOptions()
	if err != nil {
		return err
	}

	server, err := mcp.New(mcp.Config{
		Tools:   parseToolList(serveTools),
		Timeout: timeout,
		Options: opts,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\njbgen serve: shutting down\n")
		os.Exit(0)
	}()

	// stdout carries the MCP protocol
	fmt.Fprintf(os.Stderr, "jbgen serve: starting MCP server\n")
	fmt.Fprintf(os.Stderr, "jbgen serve: tools: %v\n", server.ListTools())
	if timeout > 0 {
		fmt.Fprintf(os.Stderr, "jbgen serve: timeout: %v\n", timeout)
	}

	return server.ServeStdio()
}

// parseToolList splits a comma-separated tool list, allowing the short
// form (classify -> jbgen_classify).
func parseToolList(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "jbgen_") {
			t = "jbgen_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
