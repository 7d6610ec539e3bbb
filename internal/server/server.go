package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	eventbus "github.com/hanpama/schemagraph/internal/eventbus"
	events "github.com/hanpama/schemagraph/internal/events"
	"github.com/hanpama/schemagraph/internal/merge"
	"github.com/hanpama/schemagraph/internal/mutate"
	reqid "github.com/hanpama/schemagraph/internal/reqid"
	"github.com/hanpama/schemagraph/internal/report"
	"github.com/hanpama/schemagraph/internal/workspace"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Handler is an http.Handler that serves the schema operations as a JSON API.
type Handler struct {
	ws     *workspace.Workspace
	opt    Options
	router chi.Router
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CORS configuration. If AllowedOrigins is empty, CORS is disabled.
	CORS CORSOptions

	Logger zerolog.Logger
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCORS(origins ...string) Option {
	return func(o *Options) { o.CORS.AllowedOrigins = origins }
}
func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// CORSOptions holds simple CORS settings.
type CORSOptions struct {
	AllowedOrigins []string
}

// New creates a handler running every request through ws.
func New(ws *workspace.Workspace, opts ...Option) *Handler {
	op := Options{Timeout: 10 * time.Second, Logger: zerolog.Nop()}
	for _, f := range opts {
		f(&op)
	}
	h := &Handler{ws: ws, opt: op}

	r := chi.NewRouter()
	r.Use(h.instrument, middleware.Recoverer)
	if len(op.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: op.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
		}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, op.Pretty)
	})
	r.Post("/format", h.format)
	r.Post("/fold", h.fold)
	r.Post("/merge", h.merge)
	r.Post("/diff", h.diff)
	r.Post("/proto", h.proto)
	r.Post("/edit", h.edit)
	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// instrument gives each request an id, a logger, a default timeout and the
// HTTP start and finish events.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
			defer cancel()
		}

		ctx, rid := reqid.NewContext(ctx)
		logger := h.opt.Logger.With().Str("request_id", reqid.Format(rid)).Logger()
		ctx = logger.WithContext(ctx)
		r = r.WithContext(ctx)
		w.Header().Set("X-Request-Id", reqid.Format(rid))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		eventbus.Publish(ctx, events.HTTPStart{Request: r})

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rctx := chi.RouteContext(ctx); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		eventbus.Publish(ctx, events.HTTPFinish{Request: r, Route: route, Status: status, Duration: elapsed})
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

// ------------------ Endpoints ------------------

type schemaRequest struct {
	Schema string `json:"schema"`
}

type schemaResponse struct {
	Schema string `json:"schema"`
}

type mergeRequest struct {
	Base  string `json:"base"`
	Other string `json:"other"`
}

type diffRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type diffResponse struct {
	Changed bool          `json:"changed"`
	Lines   []report.Line `json:"lines"`
}

type protoRequest struct {
	Schema  string `json:"schema"`
	Package string `json:"package"`
}

type protoResponse struct {
	Proto string `json:"proto"`
}

type editRequest struct {
	Schema string              `json:"schema"`
	Ops    []workspace.EditOp `json:"ops"`
}

type errorBody struct {
	Error     string           `json:"error"`
	Conflicts []*merge.Conflict `json:"conflicts,omitempty"`
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	out, err := h.ws.Format(r.Context(), req.Schema)
	h.respond(w, schemaResponse{Schema: out}, err)
}

func (h *Handler) fold(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	out, err := h.ws.Fold(r.Context(), req.Schema)
	h.respond(w, schemaResponse{Schema: out}, err)
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	out, err := h.ws.Merge(r.Context(), req.Base, req.Other)
	h.respond(w, schemaResponse{Schema: out}, err)
}

func (h *Handler) diff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	lines, err := h.ws.Diff(r.Context(), req.A, req.B)
	h.respond(w, diffResponse{Changed: report.Changed(lines), Lines: lines}, err)
}

func (h *Handler) proto(w http.ResponseWriter, r *http.Request) {
	var req protoRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	out, err := h.ws.Proto(r.Context(), req.Schema, req.Package)
	h.respond(w, protoResponse{Proto: out}, err)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !h.readJSON(w, r, &req) {
		return
	}
	out, err := h.ws.Edit(r.Context(), req.Schema, req.Ops)
	h.respond(w, schemaResponse{Schema: out}, err)
}

// ------------------ Request / response helpers ------------------

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if h.opt.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.opt.MaxBodyBytes)
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errBodyTooLargeMessage}, h.opt.Pretty)
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON"}, h.opt.Pretty)
		return false
	}
	return true
}

// respond writes v, or maps err to a status: merge conflicts are 409, a
// missing edit target 404, anything else the schema's fault (422).
func (h *Handler) respond(w http.ResponseWriter, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v, h.opt.Pretty)
		return
	}
	var conflicts merge.ConflictError
	switch {
	case errors.As(err, &conflicts):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Conflicts: conflicts}, h.opt.Pretty)
	case errors.Is(err, mutate.ErrNodeNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()}, h.opt.Pretty)
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: err.Error()}, h.opt.Pretty)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()}, h.opt.Pretty)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

const errBodyTooLargeMessage = "body too large"
