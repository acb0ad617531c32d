package xhttp

import (
	"os"
	"os/signal"
	"reflect"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/valyala/fasthttp"
)

var DefaultServerOption = ServerOption{
	Handler: func(ctx *RequestCtx) {
		ctx.Error(StatusText(StatusNotFound), StatusNotFound)
	},
	IdleTimeout:        time.Second * 10,
	TCPKeepalivePeriod: time.Minute * 120, // linux default
	MaxRequestBodySize: 1 * 1024 * 1024,   // read-only API
	ReadBufferSize:     1024 * 4,          // also, max header size
	WriteBufferSize:    1024 * 4,
	ReadTimeout:        time.Millisecond * 2500,
	WriteTimeout:       time.Millisecond * 5000,
	Concurrency:        30_000,
	ErrorHandler: func(ctx *RequestCtx, err error) {
		logger.Warn("[xhttp] error", "error", err)
	},
	NoDefaultServerHeader: true,
	NoDefaultContentType:  true,
	CloseOnShutdown:       true,
	Logger:                logger.GetLogger(),
}

type Server = fasthttp.Server

type ServerOption struct {
	Handler RequestHandler

	// idle keep-alive connections are dropped after this long
	IdleTimeout time.Duration

	TCPKeepalivePeriod time.Duration

	MaxRequestBodySize int

	// ReadBufferSize is the per-connection buffer size for requests' reading.
	ReadBufferSize  int
	WriteBufferSize int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Concurrency is the maximum number of concurrent connections to serve.
	Concurrency int

	ErrorHandler          func(ctx *RequestCtx, err error)
	Name                  string
	NoDefaultServerHeader bool
	NoDefaultContentType  bool
	CloseOnShutdown       bool
	Logger                logger.Logger
}

type Engine struct {
	*Router
	*Server
	option ServerOption
	middle []MiddlewareFunc
}

func newServer(options ServerOption) *fasthttp.Server {
	return &fasthttp.Server{
		Handler:               options.Handler,
		ErrorHandler:          options.ErrorHandler,
		Name:                  options.Name,
		Concurrency:           options.Concurrency,
		ReadBufferSize:        options.ReadBufferSize,
		WriteBufferSize:       options.WriteBufferSize,
		ReadTimeout:           options.ReadTimeout,
		WriteTimeout:          options.WriteTimeout,
		IdleTimeout:           options.IdleTimeout,
		TCPKeepalivePeriod:    options.TCPKeepalivePeriod,
		TCPKeepalive:          true,
		MaxRequestBodySize:    options.MaxRequestBodySize,
		NoDefaultServerHeader: options.NoDefaultServerHeader,
		NoDefaultContentType:  options.NoDefaultContentType,
		CloseOnShutdown:       options.CloseOnShutdown,
		Logger:                options.Logger,
	}
}

func NewServer(options ServerOption) *Engine {
	return &Engine{
		Server: newServer(options),
		Router: NewRouter(),
		option: options,
	}
}

func CreateServer() *Engine {
	s := NewServer(DefaultServerOption)
	s.Router = CreateDefaultRouter()
	return s
}

func (e *Engine) ListenAndServe(addr string) error {
	e.DoRouting()
	logger.Info("[xhttp] server is listening", "addr", addr)
	return e.Server.ListenAndServe(addr)
}

// DoRouting installs the router as the server handler and wraps it with the
// registered middleware. The first middleware passed to Use runs first.
func (e *Engine) DoRouting() RequestHandler {
	for method, route := range e.Router.List() {
		for _, r := range route {
			logger.Debug("[xhttp] route registered", "method", method, "path", r)
		}
	}
	e.Server.Handler = e.Router.Handler
	middle := slices.Clone(e.middle)
	slices.Reverse(middle)
	for _, m := range middle {
		e.Server.Handler = m(e.Server.Handler)
		logger.Debug("[xhttp] middleware registered", "name", runtime.FuncForPC(reflect.ValueOf(m).Pointer()).Name())
	}
	return e.Server.Handler
}

// Use adds middleware to the chain which is run for every request.
func (e *Engine) Use(middleware MiddlewareFunc) {
	e.middle = append(e.middle, middleware)
}

// CloseOnSignal shuts the server down on SIGINT/SIGTERM/SIGQUIT.
func (e *Engine) CloseOnSignal() <-chan struct{} {
	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig
		e.Shutdown()
		close(done)
	}()
	return done
}

// Shutdown gracefully shuts down the server without interrupting any active connections.
func (e *Engine) Shutdown() {
	logger.Info("[xhttp] server is shutting down", "pid", os.Getpid())
	if err := e.Server.Shutdown(); err != nil {
		logger.Error("[xhttp] error while shutting down", "error", err)
	}
}
