// Package server exposes the generation engine over HTTP: spec-to-deck
// generation, template uploads, inspection and batch processing.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/deckgen/internal/config"
	"github.com/local/deckgen/internal/deck"
	"github.com/local/deckgen/internal/limiter"
	"github.com/local/deckgen/internal/metrics"
	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/spec"
	"github.com/local/deckgen/internal/storage"
)

// Version reported by /health.
const Version = "0.1.7"

// Server handles generation requests. Every request builds its own isolated
// deck; nothing is shared across requests, so no locking is needed.
type Server struct {
	cfg      config.Config
	store    storage.Store
	inflight *limiter.Inflight
}

// New returns a server over the given configuration and artifact store.
// store may be nil when persistence is not configured.
func New(cfg config.Config, store storage.Store) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		inflight: limiter.New(cfg.Server.MaxConcurrent),
	}
}

// acquire reserves a generation slot or rejects the request with 503.
func (s *Server) acquire(w http.ResponseWriter, key string) (func(), bool) {
	release, ok := s.inflight.Allow(key)
	if !ok {
		http.Error(w, "too many concurrent generations", http.StatusServiceUnavailable)
		return nil, false
	}
	return release, true
}

// RegisterRoutes attaches all handlers to the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/generate-with-template", s.handleGenerateWithTemplate)
	mux.HandleFunc("/inspect", s.handleInspect)
	mux.HandleFunc("/batch/generate", s.handleBatch)
	mux.Handle("/metrics", metrics.Handler())
}

// Run serves until ctx is canceled, then drains with the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  s.cfg.Server.RequestTimeout,
		WriteTimeout: s.cfg.Server.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": Version})
}

// buildAndSerialize runs the interpreter over a deck and serializes the
// result. Template-backed decks are cleared first so the output contains only
// specified slides; the template still contributes its layouts, masters and
// theme.
func buildAndSerialize(d *deck.Deck, doc *spec.Document, fromTemplate bool) ([]byte, int, error) {
	if fromTemplate {
		d.ClearSlides()
	}
	if err := spec.Build(d, doc); err != nil {
		return nil, 0, err
	}
	data, err := d.Bytes()
	if err != nil {
		return nil, 0, err
	}
	return data, d.SlideCount(), nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	release, ok := s.acquire(w, "generate")
	if !ok {
		return
	}
	defer release()
	reqID := uuid.NewString()
	start := time.Now()

	var doc spec.Document
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.Server.MaxUploadMB<<20)).Decode(&doc); err != nil {
		http.Error(w, "invalid json specification", http.StatusBadRequest)
		return
	}

	data, slides, err := buildAndSerialize(deck.New(), &doc, false)
	if err != nil {
		metrics.ObserveGeneration("api", "error", 0, time.Since(start))
		log.Error().Str("request_id", reqID).Err(err).Msg("generation failed")
		writeGenerationError(w, err)
		return
	}

	metrics.ObserveGeneration("api", "ok", slides, time.Since(start))
	metrics.ObserveOutputSize(len(data))
	log.Info().Str("request_id", reqID).Int("slides", slides).Int("bytes", len(data)).Msg("generated presentation")

	// ?store=1 persists the artifact instead of streaming it back.
	if s.store != nil && r.URL.Query().Get("store") == "1" {
		key := filenameFor(r)
		loc, err := s.store.Put(r.Context(), key, data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"stored": loc, "size_bytes": len(data)})
		return
	}
	writePPTX(w, r, data)
}

// filenameFor picks the output name from the query, defaulting to a unique
// generated name so stored artifacts never collide.
func filenameFor(r *http.Request) string {
	if name := r.URL.Query().Get("filename"); name != "" {
		return name
	}
	return "deck-" + uuid.NewString() + ".pptx"
}

func (s *Server) handleGenerateWithTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	release, ok := s.acquire(w, "generate")
	if !ok {
		return
	}
	defer release()
	reqID := uuid.NewString()
	start := time.Now()

	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadMB << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	templateBytes, err := readFormFile(r, "template")
	if err != nil {
		http.Error(w, "missing template file", http.StatusBadRequest)
		return
	}
	specText := r.FormValue("spec")
	if specText == "" {
		http.Error(w, "missing spec field", http.StatusBadRequest)
		return
	}
	doc, err := spec.Decode([]byte(specText))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid specification: %v", err), http.StatusBadRequest)
		return
	}

	// Spool the upload through a scoped temp dir; the dir is removed on every
	// exit path so concurrent requests never leak files.
	tmpDir, err := os.MkdirTemp(s.cfg.Deck.TempDir, "deckgen-")
	if err != nil {
		http.Error(w, "temp dir unavailable", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)
	tmpl := filepath.Join(tmpDir, "template.pptx")
	if err := os.WriteFile(tmpl, templateBytes, 0o600); err != nil {
		http.Error(w, "temp write failed", http.StatusInternalServerError)
		return
	}

	d, err := deck.Load(tmpl)
	if err != nil {
		metrics.IncTemplateLoad("error")
		writeGenerationError(w, err)
		return
	}
	metrics.IncTemplateLoad("ok")

	data, slides, err := buildAndSerialize(d, doc, true)
	if err != nil {
		metrics.ObserveGeneration("api_template", "error", 0, time.Since(start))
		log.Error().Str("request_id", reqID).Err(err).Msg("template generation failed")
		writeGenerationError(w, err)
		return
	}

	metrics.ObserveGeneration("api_template", "ok", slides, time.Since(start))
	metrics.ObserveOutputSize(len(data))
	log.Info().Str("request_id", reqID).Int("slides", slides).Msg("generated presentation from template")
	writePPTX(w, r, data)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadMB << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	templateBytes, err := readFormFile(r, "template")
	if err != nil {
		http.Error(w, "missing template file", http.StatusBadRequest)
		return
	}
	d, err := deck.LoadBytes(templateBytes)
	if err != nil {
		metrics.IncTemplateLoad("error")
		http.Error(w, fmt.Sprintf("invalid template: %v", err), http.StatusBadRequest)
		return
	}
	metrics.IncTemplateLoad("ok")
	writeJSON(w, http.StatusOK, d.Info())
}

type batchItem struct {
	Filename string        `json:"filename"`
	Spec     spec.Document `json:"spec"`
}

type batchRequest struct {
	Items []batchItem `json:"items"`
}

type batchResult struct {
	Index      int    `json:"index"`
	Filename   string `json:"filename"`
	SizeBytes  int    `json:"size_bytes"`
	DataBase64 string `json:"data_base64"`
}

type batchError struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	release, ok := s.acquire(w, "batch")
	if !ok {
		return
	}
	defer release()
	reqID := uuid.NewString()

	var req batchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.Server.MaxUploadMB<<20)).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, "empty batch", http.StatusBadRequest)
		return
	}
	if len(req.Items) > s.cfg.Server.BatchLimit {
		http.Error(w, fmt.Sprintf("batch exceeds limit of %d items", s.cfg.Server.BatchLimit), http.StatusBadRequest)
		return
	}
	metrics.ObserveBatchSize(len(req.Items))

	results := make([]batchResult, 0, len(req.Items))
	errors := make([]batchError, 0)
	for i, item := range req.Items {
		start := time.Now()
		data, slides, err := buildAndSerialize(deck.New(), &item.Spec, false)
		if err != nil {
			metrics.ObserveGeneration("batch", "error", 0, time.Since(start))
			errors = append(errors, batchError{Index: i, Filename: item.Filename, Error: err.Error()})
			continue
		}
		metrics.ObserveGeneration("batch", "ok", slides, time.Since(start))
		results = append(results, batchResult{
			Index:      i,
			Filename:   item.Filename,
			SizeBytes:  len(data),
			DataBase64: base64.StdEncoding.EncodeToString(data),
		})
	}

	log.Info().Str("request_id", reqID).Int("total", len(req.Items)).Int("failed", len(errors)).Msg("batch complete")
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      len(req.Items),
		"successful": len(results),
		"failed":     len(errors),
		"results":    results,
		"errors":     errors,
	})
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writePPTX(w http.ResponseWriter, r *http.Request, data []byte) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "presentation.pptx"
	}
	w.Header().Set("Content-Type", pptx.ContentTypePPTX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeGenerationError maps interpretation and input errors to 400 and
// everything else to 500. Errors may arrive wrapped with slide context.
func writeGenerationError(w http.ResponseWriter, err error) {
	var (
		interpErr   *spec.InterpretationError
		seriesErr   *deck.SeriesLengthMismatchError
		layoutIdx   *pptx.LayoutIndexOutOfRangeError
		layoutName  *pptx.LayoutNotFoundError
		imageErr    *pptx.ImageNotFoundError
		templateErr *pptx.TemplateNotFoundError
		packageErr  *pptx.InvalidPackageError
	)
	switch {
	case errors.As(err, &interpErr),
		errors.As(err, &seriesErr),
		errors.As(err, &layoutIdx),
		errors.As(err, &layoutName),
		errors.As(err, &imageErr),
		errors.As(err, &templateErr),
		errors.As(err, &packageErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
