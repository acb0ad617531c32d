package xhttp

import (
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/valyala/fasthttp"
)

const slowThreshold = 500 * time.Millisecond

var skipPaths = []string{"/api/health", "/metrics"}

type MiddlewareFunc func(next RequestHandler) RequestHandler
type RequestCtx = fasthttp.RequestCtx
type RequestHandler = fasthttp.RequestHandler

// ObserveFunc receives one call per finished request.
type ObserveFunc func(route, method string, status int, latency time.Duration)

// TimeoutMiddleware answers 408 once a request outlives timeout. Requests
// under one of the exempt path prefixes run to completion.
func TimeoutMiddleware(timeout time.Duration, exempt ...string) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		limited := fasthttp.TimeoutWithCodeHandler(next, timeout, StatusText(StatusRequestTimeout), StatusRequestTimeout)
		if len(exempt) == 0 {
			return limited
		}
		return func(ctx *RequestCtx) {
			if hasPathPrefix(string(ctx.Path()), exempt) {
				next(ctx)
				return
			}
			limited(ctx)
		}
	}
}

func CompressMiddleware(level int) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return fasthttp.CompressHandlerBrotliLevel(next, level, level)
	}
}

// CORSMiddleware allows cross origin reads from allowOrigin and answers
// preflight requests itself.
func CORSMiddleware(allowOrigin string) MiddlewareFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(next RequestHandler) RequestHandler {
		return func(ctx *RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			if ctx.IsOptions() {
				ctx.SetStatusCode(StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}

func RecoverMiddleware(next RequestHandler) RequestHandler {
	return func(ctx *RequestCtx) {
		defer func() {
			if err := recover(); err != nil {
				ctx.Error(StatusText(StatusInternalServerError), StatusInternalServerError)
				logger.Error("[xhttp] panic recovered", "error", err, "path", string(ctx.Path()))
			}
		}()
		next(ctx)
	}
}

// MetricsMiddleware reports every request to observe, labelled by the
// matched route pattern rather than the raw path.
func MetricsMiddleware(observe ObserveFunc) MiddlewareFunc {
	return func(next RequestHandler) RequestHandler {
		return func(ctx *RequestCtx) {
			start := time.Now()
			next(ctx)
			observe(matchedRoute(ctx), string(ctx.Method()), ctx.Response.StatusCode(), time.Since(start))
		}
	}
}

func RequestLoggerMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		if shouldSkip(path) {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		latency := time.Since(start)
		status := ctx.Response.StatusCode()
		fields := []any{
			"status", status,
			"method", string(ctx.Method()),
			"path", path,
			"query", string(ctx.QueryArgs().QueryString()),
			"latency", latency.String(),
			"bytes_out", len(ctx.Response.Body()),
			"ip", ctx.RemoteIP().String(),
			"ua", string(ctx.Request.Header.UserAgent()),
			"request_id", requestID(ctx),
		}

		lg := logger.GetLogger()

		// choose level
		switch {
		case status >= 500:
			lg.Error("http_request", fields...)
		case status >= 400 || latency > slowThreshold:
			lg.Warn("http_request", fields...)
		default:
			lg.Info("http_request", fields...)
		}
	}
}

func shouldSkip(p string) bool {
	return hasPathPrefix(p, skipPaths)
}

func hasPathPrefix(p string, prefixes []string) bool {
	for _, sp := range prefixes {
		if strings.HasPrefix(p, sp) {
			return true
		}
	}
	return false
}

func matchedRoute(ctx *RequestCtx) string {
	if v, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && v != "" {
		return v
	}
	return "unmatched"
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if v := ctx.Request.Header.Peek("X-Request-Id"); len(v) > 0 {
		return string(v)
	}
	return ""
}
