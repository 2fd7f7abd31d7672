package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"firedam/internal/domain"
	"firedam/internal/logger"
	"firedam/internal/metrics"
)

// callStats is filled in by a handler and read back by Instrument
type callStats struct {
	outcome string
	records int
}

type statsKey struct{}

// Instrument gives every tool call an invocation id and a scoped logger,
// then logs the outcome and records metrics. m may be nil.
func Instrument(log *zap.Logger, m *metrics.Metrics) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tool := req.Params.Name
			l := log.With(
				zap.String("invocation_id", uuid.NewString()),
				zap.String("tool", tool),
			)
			stats := &callStats{outcome: "ok"}
			ctx = logger.ContextWithLogger(ctx, l)
			ctx = context.WithValue(ctx, statsKey{}, stats)

			start := time.Now()
			res, err := next(ctx, req)
			elapsed := time.Since(start)

			switch {
			case err != nil:
				stats.outcome = "internal"
			case res != nil && res.IsError && stats.outcome == "ok":
				stats.outcome = "error"
			}

			if m != nil {
				m.ObserveToolCall(tool, stats.outcome, elapsed, stats.records)
			}

			if stats.outcome == "ok" {
				l.Info("tool call",
					zap.Int("records", stats.records),
					zap.Duration("duration", elapsed),
				)
			} else {
				l.Warn("tool call failed",
					zap.String("outcome", stats.outcome),
					zap.Duration("duration", elapsed),
					zap.Error(err),
				)
			}
			return res, err
		}
	}
}

// observe stores the outcome of the current call for Instrument
func observe(ctx context.Context, err error, records int) {
	if s, ok := ctx.Value(statsKey{}).(*callStats); ok {
		s.outcome = domain.Kind(err)
		s.records = records
	}
}
