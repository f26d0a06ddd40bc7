package web

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chronos/internal/chronodate"
	"chronos/internal/config"
	"chronos/internal/daterange"
	"chronos/internal/ics"
	"chronos/internal/locale"
	appLog "chronos/internal/log"
	"chronos/internal/model"
	"chronos/internal/parser"
	"chronos/internal/timeline"
)

// maxSourceBytes bounds a single request body.
const maxSourceBytes = 1 << 20

// Server exposes the timeline compiler over HTTP.
type Server struct {
	cfg     *config.Config
	locales *locale.Table
	mux     *http.ServeMux
	cache   *parseCache
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		locales: cfg.Locales(),
		mux:     http.NewServeMux(),
		cache:   newParseCache(cfg.CacheTTL()),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured. Empty
// credentials count as disabled.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Chronos", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer serves the API on cfg.Listen until ctx is cancelled, then
// shuts down gracefully. The parse cache is purged on cfg.CachePurge.
func StartServer(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg)

	sched, err := s.cache.schedulePurge(cfg.CachePurge)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen, "cache_purge", cfg.CachePurge)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	appLog.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/parse", s.handleParse)
	s.mux.HandleFunc("POST /api/export", s.handleExport)
	s.mux.HandleFunc("GET /api/format", s.handleFormat)
	s.mux.HandleFunc("GET /api/normalize", s.handleNormalize)
	s.mux.HandleFunc("GET /api/locales", s.handleLocales)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// parseRequest is the JSON body for /api/parse and /api/export.
type parseRequest struct {
	Source string `json:"source"`
	Locale string `json:"locale,omitempty"`
}

// parseResponse carries the result and, when lines failed, the aggregate
// message plus one entry per failed line. Result is always present so
// clients can show the lines that did parse.
type parseResponse struct {
	Result model.ParseResult `json:"result"`
	Error  string            `json:"error,omitempty"`
	Errors []string          `json:"errors,omitempty"`
}

// decodeParseRequest reads the body and resolves parse options. On failure
// it has already written the error response.
func (s *Server) decodeParseRequest(w http.ResponseWriter, r *http.Request) (parseRequest, timeline.Options, bool) {
	var req parseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSourceBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, timeline.Options{}, false
	}
	opts, err := s.cfg.ParseOptions(req.Locale)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, timeline.Options{}, false
	}
	return req, opts, true
}

// handleParse compiles a timeline.
//
// POST /api/parse {"source": "...", "locale": "en"}
//   - 200 with {"result": ...} when every line parsed
//   - 422 with {"result": partial, "error": "...", "errors": [...]} otherwise
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, opts, ok := s.decodeParseRequest(w, r)
	if !ok {
		return
	}

	key := cacheKey(req.Source, opts.Locale)
	if e, hit := s.cache.get(key); hit {
		writeJSON(w, e.status, e.resp)
		return
	}

	res, err := timeline.Parse(req.Source, opts)
	status := http.StatusOK
	resp := parseResponse{Result: res}
	if err != nil {
		var agg *parser.AggregateError
		if !errors.As(err, &agg) {
			appLog.Error("api parse failed", err)
			writeError(w, http.StatusInternalServerError, "parse failed")
			return
		}
		status = http.StatusUnprocessableEntity
		resp.Error = agg.Error()
		resp.Errors = agg.Messages()
	}

	appLog.Debug("api parse", "locale", opts.Locale, "items", len(res.Items), "status", status)
	s.cache.put(key, status, resp)
	writeJSON(w, status, resp)
}

// handleExport compiles a timeline and returns it as iCalendar text.
// Lines that fail to parse are left out; their count is reported in the
// X-Chronos-Line-Errors header.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, opts, ok := s.decodeParseRequest(w, r)
	if !ok {
		return
	}

	res, err := timeline.Parse(req.Source, opts)
	var agg *parser.AggregateError
	if err != nil && !errors.As(err, &agg) {
		appLog.Error("api export failed", err)
		writeError(w, http.StatusInternalServerError, "parse failed")
		return
	}

	var buf bytes.Buffer
	if err := ics.Export(res, ics.ExportOptions{}).Serialize(&buf); err != nil {
		appLog.Error("api export serialize failed", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if agg != nil {
		w.Header().Set("X-Chronos-Line-Errors", strconv.Itoa(len(agg.Errors)))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type formatResponse struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

// handleFormat renders a date range.
//
// GET /api/format?start=2023-06-01&end=2023-06-20&locale=ja
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := chronodate.Normalize(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start: "+err.Error())
		return
	}
	var end *chronodate.Date
	if raw := q.Get("end"); raw != "" {
		e, err := chronodate.Normalize(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end: "+err.Error())
			return
		}
		end = &e
	}

	code := q.Get("locale")
	if code == "" {
		code = s.cfg.Locale
	}
	// Unknown locales still format, using the English fallback.
	if canonical, ok := s.locales.Canonical(code); ok {
		code = canonical
	}

	f := daterange.Formatter{Locales: s.locales}
	writeJSON(w, http.StatusOK, formatResponse{Locale: code, Text: f.Format(start, end, code)})
}

type normalizeResponse struct {
	Input string          `json:"input"`
	Date  chronodate.Date `json:"date"`
}

// handleNormalize returns the canonical form of a partial date.
//
// GET /api/normalize?date=2023-6
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	d, err := chronodate.Normalize(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, normalizeResponse{Input: raw, Date: d})
}

type localeDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
	RTL  bool   `json:"rtl"`
}

func (s *Server) handleLocales(w http.ResponseWriter, _ *http.Request) {
	codes := s.locales.Known()
	out := make([]localeDTO, 0, len(codes))
	for _, c := range codes {
		out = append(out, localeDTO{Code: c, Name: locale.DisplayName(c), RTL: locale.IsRTL(c)})
	}
	writeJSON(w, http.StatusOK, out)
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
