// Package preview serves the treemap and graph of one records file on a
// local HTTP host.
//
// The host plays the part of an embedding page: it owns the selected
// treemap leaf, re-renders both visualizations when the selection or the
// input file changes, and pushes a server-sent event to connected pages
// so they re-fetch.
//
// # Routes
//
//	GET  /              page embedding both visualizations
//	GET  /treemap       treemap SVG with the current selection
//	GET  /graph         co-occurrence graph SVG
//	GET  /layout/{viz}  positioned geometry as JSON
//	GET  /state         current selection and input path
//	POST /select?name=  set (or clear, when empty) the selected leaf
//	POST /drag          move a graph node and lay the graph out again
//	GET  /events        server-sent event stream
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tablescope/internal/preview/notifier"
	"github.com/matzehuels/tablescope/pkg/buildinfo"
	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/layout/force"
	"github.com/matzehuels/tablescope/pkg/observability"
	"github.com/matzehuels/tablescope/pkg/pipeline"
	"github.com/matzehuels/tablescope/pkg/render/forcegraph"
)

// Config holds configuration for the preview server.
type Config struct {
	Runner *pipeline.Runner

	// Treemap and Graph are the base options of each visualization. A
	// visualization without attributes (or fields) is not served.
	Treemap pipeline.Options
	Graph   pipeline.Options

	Addr   string
	Watch  bool
	Title  string
	Logger *log.Logger
}

// Server is the local preview host.
type Server struct {
	runner   *pipeline.Runner
	treemap  pipeline.Options
	graph    pipeline.Options
	addr     string
	watch    bool
	title    string
	logger   *log.Logger
	notifier *notifier.Notifier

	mu        sync.RWMutex
	selection string

	// dragMu guards the graph that has been dragged since the last
	// reload. A nil renderer means the graph is served fresh.
	dragMu     sync.Mutex
	dragged    *forcegraph.Renderer
	draggedSVG []byte
	draggedOpt pipeline.Options
}

// NewServer creates a new preview server. The initial selection is the
// treemap options' selection.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	title := cfg.Title
	if title == "" {
		title = "tablescope preview"
	}
	return &Server{
		runner:    cfg.Runner,
		treemap:   cfg.Treemap,
		graph:     cfg.Graph,
		addr:      cfg.Addr,
		watch:     cfg.Watch,
		title:     title,
		logger:    logger,
		notifier:  notifier.New(),
		selection: cfg.Treemap.Selection,
	}
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting preview server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchInput(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down preview server...")
		s.resetDrag()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestHooks,
		middleware.Recoverer,
		middleware.SetHeader("Server", buildinfo.UserAgent()),
	)

	r.Get("/", s.handleIndex)
	r.Get("/treemap", s.handleSVG(pipeline.VizTreemap))
	r.Get("/graph", s.handleSVG(pipeline.VizGraph))
	r.Get("/layout/{viz}", s.handleLayout)
	r.Get("/state", s.handleState)
	r.Post("/select", s.handleSelect)
	r.Post("/drag", s.handleDrag)
	r.Get("/events", s.handleEvents)

	return r
}

// Selection returns the selected leaf key or name.
func (s *Server) Selection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Select sets the selected leaf and notifies connected pages. An empty
// selection clears it.
func (s *Server) Select(ctx context.Context, selection string) {
	s.mu.Lock()
	s.selection = selection
	s.mu.Unlock()

	observability.Preview().OnSelect(ctx, selection)
	s.notifier.Broadcast(notifier.Select)
}

// Drag moves the named graph node to (x, y), in viewport coordinates, and
// lays the graph out again under the configured drag policy. The first
// drag after a reload builds the graph; later drags continue from the
// positions left by the previous one.
func (s *Server) Drag(ctx context.Context, name string, x, y float64) error {
	opts, ok := s.options(pipeline.VizGraph)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "%s is not configured", pipeline.VizGraph)
	}

	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	if s.dragged == nil {
		r, err := s.graphRenderer(ctx, opts)
		if err != nil {
			return err
		}
		s.dragged = r
	}

	svg, err := s.dragged.Drag(ctx, name, force.Point{X: x, Y: y})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "drag %q", name)
	}
	s.draggedSVG = svg
	s.logger.Debug("node dragged", "name", name, "x", x, "y", y)
	s.notifier.Broadcast(notifier.Layout)
	return nil
}

// graphRenderer loads and lays out the graph, keeping the renderer open.
func (s *Server) graphRenderer(ctx context.Context, opts pipeline.Options) (*forcegraph.Renderer, error) {
	opts.Viz = pipeline.VizGraph
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	rs, err := s.runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	built, err := s.runner.Build(ctx, rs, opts)
	if err != nil {
		return nil, err
	}
	if built.Graph == nil {
		return nil, errors.InvalidInput("graph has no nodes to drag")
	}
	r, _, err := pipeline.GraphRenderer(ctx, built.Graph, opts, false)
	if err != nil {
		return nil, err
	}
	s.draggedOpt = opts
	return r, nil
}

// draggedGraph returns the document and layout of the dragged graph, or
// false when nothing was dragged since the last reload.
func (s *Server) draggedGraph() ([]byte, *pipeline.Layout, bool) {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	if s.dragged == nil {
		return nil, nil, false
	}
	return s.draggedSVG, pipeline.GraphLayout(s.dragged, s.draggedOpt), true
}

// resetDrag drops dragged positions so the next graph request lays out
// from scratch.
func (s *Server) resetDrag() {
	s.dragMu.Lock()
	defer s.dragMu.Unlock()
	if s.dragged != nil {
		_ = s.dragged.Close()
	}
	s.dragged, s.draggedSVG = nil, nil
}

// Notifier returns the server's notifier.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// options returns the options of viz with the current selection, or false
// when viz is not configured.
func (s *Server) options(viz string) (pipeline.Options, bool) {
	switch viz {
	case pipeline.VizTreemap:
		opts := s.treemap
		opts.Selection = s.Selection()
		return opts, len(opts.Attributes) > 0
	case pipeline.VizGraph:
		return s.graph, len(s.graph.Fields) > 0
	}
	return pipeline.Options{}, false
}

// render runs viz through the runner and returns the interactive SVG.
func (s *Server) render(ctx context.Context, viz string) (*pipeline.Result, error) {
	opts, ok := s.options(viz)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "%s is not configured", viz)
	}
	opts.Viz = viz
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Logger = s.logger
	return s.runner.Execute(ctx, opts)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, indexData{
		Title:   s.title,
		Treemap: len(s.treemap.Attributes) > 0,
		Graph:   len(s.graph.Fields) > 0,
	})
}

func (s *Server) handleSVG(viz string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if viz == pipeline.VizGraph {
			if svg, _, ok := s.draggedGraph(); ok {
				w.Header().Set("Content-Type", "image/svg+xml")
				w.Header().Set("Cache-Control", "no-store")
				_, _ = w.Write(svg)
				return
			}
		}
		result, err := s.render(r.Context(), viz)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(result.Artifacts[pipeline.FormatSVG])
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	viz := chi.URLParam(r, "viz")
	if err := pipeline.ValidateVizType(viz); err != nil {
		s.writeError(w, err)
		return
	}
	l, err := s.layout(r.Context(), viz)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := pipeline.MarshalLayout(l)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) layout(ctx context.Context, viz string) (*pipeline.Layout, error) {
	if viz == pipeline.VizGraph {
		if _, l, ok := s.draggedGraph(); ok {
			return l, nil
		}
	}
	result, err := s.render(ctx, viz)
	if err != nil {
		return nil, err
	}
	return result.Layout, nil
}

// State is the body of GET /state.
type State struct {
	Input     string `json:"input"`
	Selection string `json:"selection"`
	Treemap   bool   `json:"treemap"`
	Graph     bool   `json:"graph"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(State{
		Input:     s.treemap.Input,
		Selection: s.Selection(),
		Treemap:   len(s.treemap.Attributes) > 0,
		Graph:     len(s.graph.Fields) > 0,
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.Select(r.Context(), r.URL.Query().Get("name"))
	w.WriteHeader(http.StatusNoContent)
}

// DragEnd is the body of POST /drag.
type DragEnd struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var d DragEnd
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid drag body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.Drag(r.Context(), d.Name, d.X, d.Y); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev, s.Selection())
			flusher.Flush()
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.GetCode(err).HTTPStatus()
	if status == http.StatusInternalServerError {
		s.logger.Error("preview request failed", "error", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// requestHooks reports every request to the preview hooks.
func requestHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Preview().OnRequest(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
