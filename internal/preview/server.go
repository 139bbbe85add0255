// Package preview serves a live style guide for the token document: the
// generated stylesheets, the flattened custom properties, build status, and
// a websocket that tells open pages to reload after every successful pass.
package preview

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/prism/internal/compiler"
	"github.com/conneroisu/prism/internal/errors"
	"github.com/conneroisu/prism/internal/generators"
	"github.com/conneroisu/prism/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server is the preview HTTP server.
type Server struct {
	compiler *compiler.Compiler
	hub      *Hub
	addr     string
	logger   logging.Logger

	serverMutex sync.Mutex
	httpServer  *http.Server
	listener    net.Listener
}

// New creates a preview server for c listening on addr. It subscribes to
// c's passes so that every successful pass is broadcast as a reload.
func New(c *compiler.Compiler, addr string, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("preview")

	s := &Server{
		compiler: c,
		hub:      NewHub(logger),
		addr:     addr,
		logger:   logger,
	}
	c.OnPass(s.handlePass)

	return s
}

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

// Addr returns the bound address once Start has been called, and the
// configured address before that.
func (s *Server) Addr() string {
	s.serverMutex.Lock()
	defer s.serverMutex.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Handler returns the routes of the preview server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /css/{name}", s.handleCSS)
	mux.HandleFunc("GET /tokens.json", s.handleTokens)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return Chain(mux,
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		HeadersMiddleware,
	)
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.NewConfigError(errors.CodeConfigInvalid, "cannot listen on "+s.addr).
			WithContext("cause", err.Error())
	}

	s.serverMutex.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.serverMutex.Unlock()

	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	go s.hub.Run(hubCtx)

	s.logger.Info(ctx, "preview server listening", "addr", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	cancelHub()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handlePass(batch *compiler.Batch) {
	if !batch.OK() {
		s.logger.Debug(context.Background(), "skipping reload after failed pass",
			"failed", len(batch.Failed()))
		return
	}
	s.hub.Broadcast(MessageReload)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := Page{
		Title:  "prism style guide",
		Sheets: s.sheets(),
	}

	props, err := s.compiler.CustomProperties()
	if err != nil {
		page.Error = err.Error()
	} else {
		page.Properties = props
	}

	templ.Handler(StyleGuide(page)).ServeHTTP(w, r)
}

func (s *Server) sheets() []Sheet {
	registry := s.compiler.Registry()
	sheets := make([]Sheet, 0, registry.Len())
	for _, name := range registry.Stylesheets() {
		info, err := registry.Info(name)
		if err != nil {
			continue
		}
		sheets = append(sheets, Sheet{
			Name:        info.Name,
			DisplayName: info.DisplayName,
			Description: info.Description,
			Href:        "/css/" + info.Name,
		})
	}
	return sheets
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.PathValue("name"), ".css")

	css, err := s.compiler.CSS(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(css)
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	props, err := s.compiler.CustomProperties()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

// Status is the body of GET /status.
type Status struct {
	Artifacts []generators.Info `json:"artifacts"`
	Metrics   compiler.Metrics  `json:"metrics"`
	Clients   int               `json:"clients"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	registry := s.compiler.Registry()
	status := Status{
		Artifacts: make([]generators.Info, 0, registry.Len()),
		Metrics:   s.compiler.Metrics().Snapshot(),
		Clients:   s.hub.ClientCount(),
	}
	for _, name := range registry.List() {
		if info, err := registry.Info(name); err == nil {
			status.Artifacts = append(status.Artifacts, *info)
		}
	}
	writeJSON(w, http.StatusOK, &status)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.CodeOf(err) == errors.CodeUnknownArtifact:
		status = http.StatusNotFound
	case errors.IsMissingInput(err), errors.IsMalformedToken(err):
		status = http.StatusUnprocessableEntity
	}

	s.logger.Warn(r.Context(), err, "preview request failed", "path", r.URL.Path)
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.CodeOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
