package router

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type route struct {
	method   string
	segments []string // ":name" segments capture, a trailing "*" matches the rest
	handler  HandlerFunc
}

// Router is a minimal method-aware mux with :param captures and a
// trailing * wildcard. Routes match in registration order.
type Router struct {
	routes []route
	paths  map[string]bool // track registered path patterns
}

func New() *Router {
	return &Router{
		paths: make(map[string]bool),
	}
}

type paramsKey struct{}

// Param returns the value captured for a :name segment, or ""
func Param(r *http.Request, name string) string {
	if params, ok := r.Context().Value(paramsKey{}).(map[string]string); ok {
		return params[name]
	}
	return ""
}

// ServeHTTP dispatches and logs every request
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	handler, params, pathKnown := r.match(req.Method, req.URL.Path)
	switch {
	case handler != nil:
		if len(params) > 0 {
			req = req.WithContext(context.WithValue(req.Context(), paramsKey{}, params))
		}
		handler(lrw, req)
	case pathKnown:
		// Path exists but method not allowed
		http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(lrw, "Not Found", http.StatusNotFound)
	}

	duration := time.Since(start)
	color := statusColor(lrw.statusCode)
	methodColor := methodColor(req.Method)

	log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor, req.Method, colorReset,
		req.URL.Path,
		color, lrw.statusCode, colorReset,
		colorBlue, duration, colorReset,
	)
}

// match finds the first registered route matching the request. It also
// reports whether the path matched any route regardless of method, for
// 405 vs 404.
func (r *Router) match(method, path string) (HandlerFunc, map[string]string, bool) {
	requestSegments := splitPath(path)
	pathKnown := false

	for _, rt := range r.routes {
		params, ok := matchSegments(requestSegments, rt.segments)
		if !ok {
			continue
		}
		pathKnown = true
		if rt.method == method {
			return rt.handler, params, true
		}
	}
	return nil, nil, pathKnown
}

// matchSegments checks one pattern against the request segments,
// collecting :name captures
func matchSegments(requestSegments, routeSegments []string) (map[string]string, bool) {
	params := map[string]string{}

	for i, seg := range routeSegments {
		if seg == "*" && i == len(routeSegments)-1 {
			// Trailing wildcard swallows the rest, including nothing
			return params, len(requestSegments) >= i
		}
		if i >= len(requestSegments) {
			return nil, false
		}
		if strings.HasPrefix(seg, ":") {
			params[seg[1:]] = requestSegments[i]
			continue
		}
		if requestSegments[i] != seg {
			return nil, false
		}
	}

	if len(requestSegments) != len(routeSegments) {
		return nil, false
	}
	return params, true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "/")
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(path),
		handler:  handler,
	})
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Handle mounts a plain http.Handler, typically under a trailing *
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.register(method, path, func(w http.ResponseWriter, req *http.Request) {
		handler.ServeHTTP(w, req)
	})
}

// Paths returns the registered path patterns, for testing
func (r *Router) Paths() map[string]bool {
	return r.paths
}

// --- Start server ---
func (r *Router) Start(addr string) {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	log.Fatal(http.ListenAndServe(addr, r))
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut:
		return colorYellow
	case http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}
