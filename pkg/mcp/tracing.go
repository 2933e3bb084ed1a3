package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/iconify/pkg/log"
)

// WithTracing wraps a tool handler with an OpenTelemetry span and
// structured logging. Logs written during the call carry the trace ID.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	tool string,
	handler mcp.ToolHandlerFor[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		ctx, span := tracer.Start(ctx, tool, trace.WithAttributes(
			attribute.String("mcp.tool", tool),
		))
		defer span.End()

		logger := log.WithContext(ctx)
		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", tool),
			slog.Any("args", in),
		)

		res, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", tool),
				slog.Any("err", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return res, out, err
		}

		logger.DebugContext(ctx, "tool call completed", slog.String("name", tool))

		return res, out, nil
	}
}
