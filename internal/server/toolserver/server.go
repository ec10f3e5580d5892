package toolserver

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/vfsnap/vfsnap-go/internal/core/domain"
	"github.com/vfsnap/vfsnap-go/internal/snapshot"
	"github.com/vfsnap/vfsnap-go/internal/telemetry/logger"
	"github.com/vfsnap/vfsnap-go/internal/telemetry/metric"
	"github.com/vfsnap/vfsnap-go/internal/vfs"
)

// Config holds tool server settings.
type Config struct {
	// Version is reported in the MCP handshake. Default: "dev".
	Version string

	// RPS caps sustained tool calls per second; 0 disables limiting.
	RPS float64

	// Burst is the limiter burst allowance. Only read when RPS > 0.
	Burst int

	// Logger receives per-call events. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records per-tool and engine counters. Defaults to the
	// process-global registry.
	Metrics *metric.Registry
}

// Server wires a filesystem backend and a snapshot manager into an MCP
// server. Tool calls run concurrently as the SDK dispatches them; all
// state behind the tools is safe for concurrent use.
type Server struct {
	fs      vfs.FileSystem
	snaps   *snapshot.Manager
	logger  *slog.Logger
	metrics *metric.Registry
	limiter *rate.Limiter
	mcp     *mcp.Server
}

// New assembles the MCP server and registers the full tool surface.
func New(fs vfs.FileSystem, snaps *snapshot.Manager, cfg Config) (*Server, error) {
	if fs == nil {
		return nil, fmt.Errorf("toolserver: filesystem is required")
	}
	if snaps == nil {
		return nil, fmt.Errorf("toolserver: snapshot manager is required")
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metric.Global()
	}

	s := &Server{
		fs:      fs,
		snaps:   snaps,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "vfsnap",
			Version: cfg.Version,
		}, nil),
	}
	if cfg.RPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}

	s.registerFSTools()
	s.registerSnapshotTools()

	// Seed the gauge with whatever the manager reloaded at startup.
	s.metrics.SetSnapshotCount(len(snaps.List()))

	return s, nil
}

// Run serves MCP over the given transport until the session ends or ctx
// is canceled. Production uses &mcp.StdioTransport{}; tests use the
// in-memory pair.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcp.Run(ctx, t)
}

// handlerFunc is a tool body: decode args, do the work, return a
// JSON-marshalable response.
type handlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// register wraps a tool body with the per-call middleware: request ID,
// rate limiting, metrics and logging. Tool failures are reported through
// result.SetError with a nil protocol error so the session survives them.
func (s *Server) register(tool *mcp.Tool, handle handlerFunc) {
	name := tool.Name
	s.mcp.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqID := newRequestID()
		ctx = logger.WithRequestID(ctx, reqID)
		log := s.logger.With("request_id", reqID, "tool", name)

		if s.limiter != nil && !s.limiter.Allow() {
			err := domain.ErrRateLimited.WithDetails(name)
			s.metrics.RecordToolError(name, err.Code)
			log.Warn("tool call rejected", "code", err.Code)
			return toolError(err), nil
		}

		start := time.Now()
		resp, err := handle(ctx, req.Params.Arguments)
		elapsed := time.Since(start)

		s.metrics.RecordToolCall(name, elapsed.Seconds())

		if err != nil {
			code := domain.GetErrorCode(err)
			if code == "" {
				code = domain.ErrInternal.Code
			}
			s.metrics.RecordToolError(name, code)
			log.Warn("tool call failed",
				"code", code,
				"duration_ms", elapsed.Milliseconds(),
				"error", err,
			)
			return toolError(err), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			s.metrics.RecordToolError(name, domain.ErrInternal.Code)
			log.Error("marshaling tool response failed", "error", err)
			return toolError(domain.ErrInternal.WithCause(err)), nil
		}

		log.Info("tool call completed", "duration_ms", elapsed.Milliseconds())
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// toolError builds a CallToolResult carrying a tool-level failure.
func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res
}

// decode unmarshals tool arguments into a typed request. Missing
// arguments leave the zero value in place.
func decode(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	return nil
}

// inputSchema builds a type:object JSON schema for a tool.
func inputSchema(properties map[string]any, required []string) json.RawMessage {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	data, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("toolserver: marshal input schema: %v", err))
	}
	return json.RawMessage(data)
}

// newRequestID generates a ULID for correlating the log lines of one call.
func newRequestID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "req-unknown"
	}
	return id.String()
}
