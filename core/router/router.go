package router

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// HandlerFunc handles a request and reports a failure it could not render itself
type HandlerFunc func(*Context) error

// MiddlewareFunc wraps a handler
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Router is the application HTTP router. Routes are mounted on chi; middleware
// registered with Use applies to every route, including those added earlier.
type Router struct {
	mux        chi.Router
	mu         sync.RWMutex
	middleware []MiddlewareFunc
	notFound   HandlerFunc
	server     *http.Server
}

// RouterGroup registers routes under a common prefix
type RouterGroup struct {
	router     *Router
	prefix     string
	middleware []MiddlewareFunc
}

// New creates an empty router
func New() *Router {
	r := &Router{mux: chi.NewRouter()}
	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		r.mu.RLock()
		handler := r.notFound
		r.mu.RUnlock()
		if handler == nil {
			handler = func(c *Context) error {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
			}
		}
		r.serve(w, req, handler, nil)
	})
	// global middleware still sees unrouted methods, so CORS can answer OPTIONS
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		r.serve(w, req, func(c *Context) error {
			return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		}, nil)
	})
	return r
}

// Use appends global middleware
func (r *Router) Use(mw ...MiddlewareFunc) {
	r.mu.Lock()
	r.middleware = append(r.middleware, mw...)
	r.mu.Unlock()
}

// Group returns a route group rooted at prefix
func (r *Router) Group(prefix string, mw ...MiddlewareFunc) *RouterGroup {
	return &RouterGroup{router: r, prefix: strings.TrimRight(prefix, "/"), middleware: mw}
}

func (r *Router) GET(path string, h HandlerFunc)    { r.handle(http.MethodGet, path, h, nil) }
func (r *Router) POST(path string, h HandlerFunc)   { r.handle(http.MethodPost, path, h, nil) }
func (r *Router) PUT(path string, h HandlerFunc)    { r.handle(http.MethodPut, path, h, nil) }
func (r *Router) PATCH(path string, h HandlerFunc)  { r.handle(http.MethodPatch, path, h, nil) }
func (r *Router) DELETE(path string, h HandlerFunc) { r.handle(http.MethodDelete, path, h, nil) }

// NotFound sets the fallback handler
func (r *Router) NotFound(h HandlerFunc) {
	r.mu.Lock()
	r.notFound = h
	r.mu.Unlock()
}

// Static serves files from dir under prefix
func (r *Router) Static(prefix, dir string) {
	prefix = strings.TrimRight(prefix, "/")
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.mux.Handle(prefix+"/*", fs)
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Run listens on addr until Shutdown is called
func (r *Router) Run(addr string) error {
	r.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with Run
func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

func (g *RouterGroup) GET(path string, h HandlerFunc)    { g.handle(http.MethodGet, path, h) }
func (g *RouterGroup) POST(path string, h HandlerFunc)   { g.handle(http.MethodPost, path, h) }
func (g *RouterGroup) PUT(path string, h HandlerFunc)    { g.handle(http.MethodPut, path, h) }
func (g *RouterGroup) PATCH(path string, h HandlerFunc)  { g.handle(http.MethodPatch, path, h) }
func (g *RouterGroup) DELETE(path string, h HandlerFunc) { g.handle(http.MethodDelete, path, h) }

// Group nests a group under this one
func (g *RouterGroup) Group(prefix string, mw ...MiddlewareFunc) *RouterGroup {
	combined := append(append([]MiddlewareFunc{}, g.middleware...), mw...)
	return &RouterGroup{router: g.router, prefix: g.prefix + strings.TrimRight(prefix, "/"), middleware: combined}
}

// Use adds middleware applied to routes registered on this group afterwards
func (g *RouterGroup) Use(mw ...MiddlewareFunc) {
	g.middleware = append(g.middleware, mw...)
}

// Prefix returns the group's path prefix
func (g *RouterGroup) Prefix() string {
	return g.prefix
}

func (g *RouterGroup) handle(method, path string, h HandlerFunc) {
	g.router.handle(method, g.prefix+path, h, g.middleware)
}

func (r *Router) handle(method, path string, h HandlerFunc, groupMiddleware []MiddlewareFunc) {
	local := append([]MiddlewareFunc{}, groupMiddleware...)
	r.mux.MethodFunc(method, chiPattern(path), func(w http.ResponseWriter, req *http.Request) {
		r.serve(w, req, h, local)
	})
}

func (r *Router) serve(w http.ResponseWriter, req *http.Request, h HandlerFunc, local []MiddlewareFunc) {
	r.mu.RLock()
	global := r.middleware
	r.mu.RUnlock()

	handler := h
	for i := len(local) - 1; i >= 0; i-- {
		handler = local[i](handler)
	}
	for i := len(global) - 1; i >= 0; i-- {
		handler = global[i](handler)
	}

	c := newContext(w, req)
	if err := handler(c); err != nil && !c.Writer.Written() {
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

var (
	paramSegment    = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)
	wildcardSegment = regexp.MustCompile(`\*[A-Za-z_][A-Za-z0-9_]*$`)
)

// chiPattern converts "/items/:id" and "/files/*path" into chi patterns
func chiPattern(path string) string {
	if path == "" {
		return "/"
	}
	path = paramSegment.ReplaceAllString(path, "{$1}")
	return wildcardSegment.ReplaceAllString(path, "*")
}
