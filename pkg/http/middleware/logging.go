package middleware

import (
	"time"

	applogger "StockScope/pkg/logger"
	"StockScope/pkg/tracing"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestLogging logs one structured line per request. With tracing on, each
// request gets a root span and the line carries its trace and span ids.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			var span trace.Span
			if tracing.Enabled() {
				ctx := req.Context()
				ctx, span = tracing.StartSpan(ctx, "http.request",
					attribute.String("http.method", req.Method),
					attribute.String("http.target", req.URL.Path),
				)
				req = req.WithContext(ctx)
				c.SetRequest(req)
			}

			err := next(c)
			if err != nil {
				// Let echo write the response so the logged status is final.
				c.Error(err)
			}

			res := c.Response()
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote_ip", c.RealIP()),
				applogger.Int("status", res.Status),
				applogger.Int64("bytes", res.Size),
				applogger.Duration("latency_ms", time.Since(start)),
			}
			if traceID, spanID, ok := tracing.TraceFields(req.Context()); ok {
				fields = append(fields, applogger.String("trace_id", traceID), applogger.String("span_id", spanID))
			}
			if span != nil {
				span.SetAttributes(attribute.Int("http.status_code", res.Status))
				tracing.Fail(span, err)
				span.End()
			}
			switch {
			case res.Status >= 500:
				l.Error("http request", append(fields, applogger.Error(err))...)
			case res.Status >= 400:
				l.Warn("http request", fields...)
			default:
				l.Info("http request", fields...)
			}
			return nil
		}
	}
}
