package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/athapong/kg-extract/pkg/graph"
	"github.com/athapong/kg-extract/pkg/graph/algorithms"
	"github.com/athapong/kg-extract/pkg/graph/visualizer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server displays one extracted graph over HTTP until its context ends
type Server struct {
	graph  *graph.Graph
	data   *graph.KnowledgeGraphData
	layout algorithms.Layout
	viz    *visualizer.D3Visualizer
	logger *logrus.Logger
}

// New creates a server for g positioned by layout
func New(g *graph.Graph, layout algorithms.Layout, viz *visualizer.D3Visualizer, logger *logrus.Logger) *Server {
	return &Server{
		graph:  g,
		data:   g.Data(),
		layout: layout,
		viz:    viz,
		logger: logger,
	}
}

// Router returns the HTTP routes: the rendered page, the graph as JSON and
// Prometheus metrics. /graph.json?from=X&depth=N&order=bfs|dfs narrows the
// graph to the nodes reachable from X.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/graph.json", s.handleGraph)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.viz.Render(&buf, s.data, s.layout); err != nil {
		s.logger.WithError(err).Error("Failed to render graph")
		http.Error(w, "failed to render graph", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	data := s.data

	if from := r.URL.Query().Get("from"); from != "" {
		depth := 1
		if raw := r.URL.Query().Get("depth"); raw != "" {
			d, err := strconv.Atoi(raw)
			if err != nil || d < 0 {
				http.Error(w, "depth must be a non-negative integer", http.StatusBadRequest)
				return
			}
			depth = d
		}
		order, err := algorithms.ParseTraversalType(r.URL.Query().Get("order"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !s.graph.HasNode(from) {
			http.Error(w, "node not found", http.StatusNotFound)
			return
		}

		nodes, err := algorithms.NewGraphTraversal(s.graph).Traverse(r.Context(), from, depth, order)
		if err != nil {
			s.logger.WithError(err).Error("Failed to traverse graph")
			http.Error(w, "traversal failed", http.StatusInternalServerError)
			return
		}
		data = algorithms.Subgraph(s.graph, nodes).Data()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode graph")
	}
}

// Run serves on addr and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Serving knowledge graph on http://%s/", displayAddr(addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down display server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error during server shutdown")
	}
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
