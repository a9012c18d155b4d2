// Package preview serves rendered snapshots over HTTP so a descriptor graph
// can be inspected interactively while iterating on a provider.
package preview

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/typesnap/typesnap/ir"
	"github.com/typesnap/typesnap/render"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// Server exposes a descriptor set over HTTP.
type Server struct {
	roots  []*ir.GeneratedType
	byName map[string]*ir.GeneratedType
	logger *slog.Logger
}

// NewServer creates a preview server over the given descriptors. Roots are
// addressable by bare name and by namespace-qualified name; a nil logger
// falls back to slog.Default.
func NewServer(roots []*ir.GeneratedType, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]*ir.GeneratedType, len(roots)*2)
	for _, root := range roots {
		byName[root.Name] = root
		if root.Namespace != "" {
			byName[root.Namespace+"."+root.Name] = root
		}
	}
	return &Server{roots: roots, byName: byName, logger: logger}
}

// Handler returns the HTTP handler for the preview endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return logRequests(s.logger, mux)
}

// ListenAndServe runs the preview server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("preview server listening", "addr", addr, "roots", len(s.roots))
	return http.ListenAndServe(addr, s.Handler())
}

// SnapshotRequest carries the query parameters for GET /snapshot.
type SnapshotRequest struct {
	Root      string `schema:"root" validate:"required"`
	Depth     int    `schema:"depth" validate:"gte=0"`
	Width     int    `schema:"width" validate:"gte=1"`
	Bodies    bool   `schema:"bodies"`
	Qualified bool   `schema:"qualified"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	req := SnapshotRequest{Depth: 5, Width: 100}
	if err := schemaDecoder.Decode(&req, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to decode query: %w", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	root, ok := s.byName[req.Root]
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown root type %q", req.Root))
		return
	}

	out, err := render.Walk(root, render.Options{
		MaxDepth:      req.Depth,
		MaxWidth:      req.Width,
		SignatureOnly: !req.Bodies,
		Qualified:     req.Qualified,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("snapshot rendered",
		"root", req.Root, "depth", req.Depth, "width", req.Width, "bytes", len(out))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.roots); err != nil {
		s.logger.Error("failed to encode graph", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"ok":true,"roots":%d}`+"\n", len(s.roots))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("preview request failed", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
