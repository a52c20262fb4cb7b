// Package server exposes the row engine as MCP tools served over stdio.
package server

import (
	"context"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ukaji3/exrows-go/pkg/exrows"
)

// Opener opens an engine for one tool call.
type Opener func(path string) (*exrows.Engine, error)

// Config configures a Server.
type Config struct {
	Name    string
	Version string
	// Open opens documents; if nil, exrows.Open with default options is used.
	Open Opener
}

// Server answers tool calls one at a time, each on a freshly opened document.
type Server struct {
	cfg    Config
	mcp    *mcpserver.MCPServer
	logger *zap.Logger
}

// New registers every row tool on a new MCP server.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "exrows"
	}
	if cfg.Open == nil {
		cfg.Open = func(path string) (*exrows.Engine, error) {
			return exrows.Open(path, exrows.Options{Logger: logger})
		}
	}
	s := &Server{
		cfg: cfg,
		mcp: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		logger: logger,
	}
	for _, t := range tools() {
		s.mcp.AddTool(t.def, s.handle(t))
	}
	return s
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w until r ends or ctx is canceled. Both end cleanly.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))

	s.logger.Debug("server.listen", zap.String("name", s.cfg.Name))
	err := stdio.Listen(ctx, r, w)
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		s.logger.Debug("server.stopped")
		return nil
	}
	return err
}

func (s *Server) handle(t tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArgs(req.GetArguments(), t.required)
		if err != nil {
			s.logger.Info("tool.invalid_arguments", zap.String("tool", t.def.Name), zap.Error(err))
			return mcp.NewToolResultError(CodeInvalidArgument + ": " + err.Error()), nil
		}

		result, err := s.run(t, args)
		if err != nil {
			code := ErrorCode(err)
			s.logger.Info("tool.failed", zap.String("tool", t.def.Name), zap.String("code", code), zap.Error(err))
			return mcp.NewToolResultError(code + ": " + err.Error()), nil
		}
		s.logger.Debug("tool.done", zap.String("tool", t.def.Name), zap.String("path", args.FilePath))
		return textResult(result)
	}
}

func (s *Server) run(t tool, args Args) (any, error) {
	eng, err := s.cfg.Open(args.FilePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			s.logger.Warn("tool.close_failed", zap.String("path", args.FilePath), zap.Error(cerr))
		}
	}()
	return t.call(eng, args)
}
