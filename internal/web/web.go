package web

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tsconv/internal/config"
	"tsconv/internal/convert"
	appLog "tsconv/internal/log"
	"tsconv/internal/model"
)

// Server exposes the converter over HTTP for tools that cannot spawn the
// CLI: /health and /api/convert.
type Server struct {
	cfg  *config.Config
	conv *convert.Converter
	mux  *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, conv *convert.Converter) *Server {
	s := &Server{
		cfg:  cfg,
		conv: conv,
		mux:  http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// requireAuth wraps a route with HTTP Basic Auth when credentials are
// configured.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg == nil || s.cfg.BasicAuth == nil || s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return next
	}
	appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)

	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="tsconv", charset="UTF-8"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// authorized checks the request's credentials in constant time. Both
// fields are hashed so their lengths do not leak either.
func (s *Server) authorized(r *http.Request) bool {
	u, p, ok := r.BasicAuth()
	if !ok {
		return false
	}
	gotU, gotP := sha256.Sum256([]byte(u)), sha256.Sum256([]byte(p))
	wantU := sha256.Sum256([]byte(s.cfg.BasicAuth.Username))
	wantP := sha256.Sum256([]byte(s.cfg.BasicAuth.Password))
	return subtle.ConstantTimeCompare(gotU[:], wantU[:])&subtle.ConstantTimeCompare(gotP[:], wantP[:]) == 1
}

// Serve listens on cfg.Listen until ctx is cancelled, then shuts down with a
// short grace period.
func Serve(ctx context.Context, cfg *config.Config, conv *convert.Converter) error {
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewServer(cfg, conv).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/convert", s.requireAuth(s.handleConvert))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// convertResponse is the JSON response shape for /api/convert.
type convertResponse struct {
	Input      string            `json:"input"`
	Format     string            `json:"format"`
	Precision  string            `json:"precision"`
	Time       time.Time         `json:"time"`
	Candidates []model.Candidate `json:"candidates"`
}

// handleConvert converts the q query parameter.
//
// GET /api/convert?q=1609459200
//   - 200 with candidates on success
//   - 400 when q is missing
//   - 422 when q matches no known format
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	m, candidates, err := s.conv.Analyze(q)
	if err != nil {
		writeConvertError(w, q, err)
		return
	}

	appLog.Info("api convert request", "input", q, "format", m.Format, "candidates", len(candidates))
	writeJSON(w, http.StatusOK, convertResponse{
		Input:      q,
		Format:     m.Format,
		Precision:  m.Precision.String(),
		Time:       m.Time,
		Candidates: candidates,
	})
}

func writeConvertError(w http.ResponseWriter, q string, err error) {
	if convert.IsNoMatch(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	appLog.Error("api convert failed", err, "input", q)
	writeError(w, http.StatusInternalServerError, "conversion failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
