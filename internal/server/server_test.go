package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/local/deckgen/internal/config"
	"github.com/local/deckgen/internal/deck"
	"github.com/local/deckgen/internal/pptx"
	"github.com/local/deckgen/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *http.ServeMux, string) {
	t.Helper()
	outDir := t.TempDir()
	cfg := config.Config{
		Server: config.ServerConfig{
			MaxUploadMB:   10,
			BatchLimit:    3,
			MaxConcurrent: 4,
		},
		Deck: config.DeckConfig{TempDir: t.TempDir()},
	}
	s := New(cfg, storage.NewLocalStore(outDir))
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s, mux, outDir
}

func templateBytes(t *testing.T) []byte {
	t.Helper()
	data, err := deck.New().Bytes()
	if err != nil {
		t.Fatalf("template bytes: %v", err)
	}
	return data
}

func multipartTemplate(t *testing.T, tmpl []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if tmpl != nil {
		fw, err := mw.CreateFormFile("template", "template.pptx")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(tmpl); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	_, mux, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["version"] != Version {
		t.Errorf("body = %v", body)
	}
}

func TestGenerateReturnsPackage(t *testing.T) {
	_, mux, _ := newTestServer(t)
	specJSON := `{"title":"T","slides":[{"type":"content","title":"X","bullets":["a","b"]}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?filename=out.pptx", strings.NewReader(specJSON)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != pptx.ContentTypePPTX {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "out.pptx") {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a zip package")
	}
	d, err := deck.LoadBytes(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if d.SlideCount() != 2 {
		t.Errorf("slides = %d, want 2 (title + content)", d.SlideCount())
	}
}

func TestGenerateRejectsInvalidJSON(t *testing.T) {
	_, mux, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	_, mux, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestGenerateSpecErrorsAreClientErrors(t *testing.T) {
	_, mux, _ := newTestServer(t)
	// Series shorter than categories is a specification error, not a server fault.
	specJSON := `{"slides":[{"type":"chart","categories":["a","b"],"series":{"s":[1]}}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(specJSON)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "s") {
		t.Errorf("error should name the series: %s", rec.Body.String())
	}
}

func TestGenerateStoresWhenRequested(t *testing.T) {
	_, mux, outDir := newTestServer(t)
	specJSON := `{"slides":[{"type":"blank"}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?store=1&filename=stored.pptx", strings.NewReader(specJSON)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Stored    string `json:"stored"`
		SizeBytes int    `json:"size_bytes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SizeBytes == 0 {
		t.Error("size_bytes = 0")
	}
	data, err := os.ReadFile(filepath.Join(outDir, "stored.pptx"))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("stored file is not a zip package")
	}
}

func TestGenerateWithTemplate(t *testing.T) {
	_, mux, _ := newTestServer(t)
	body, ct := multipartTemplate(t, templateBytes(t), map[string]string{
		"spec": "title: From Template\nslides:\n  - type: blank\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/generate-with-template", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	d, err := deck.LoadBytes(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if d.SlideCount() != 2 {
		t.Errorf("slides = %d, want 2 (template slides cleared, spec slides only)", d.SlideCount())
	}
}

func TestGenerateWithTemplateMissingParts(t *testing.T) {
	_, mux, _ := newTestServer(t)

	// No template file.
	body, ct := multipartTemplate(t, nil, map[string]string{"spec": "slides: []"})
	req := httptest.NewRequest(http.MethodPost, "/generate-with-template", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing template: status = %d, want 400", rec.Code)
	}

	// No spec field.
	body, ct = multipartTemplate(t, templateBytes(t), nil)
	req = httptest.NewRequest(http.MethodPost, "/generate-with-template", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing spec: status = %d, want 400", rec.Code)
	}
}

func TestInspect(t *testing.T) {
	_, mux, _ := newTestServer(t)
	body, ct := multipartTemplate(t, templateBytes(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/inspect", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var info deck.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.LayoutCount != 9 || len(info.Layouts) != 9 {
		t.Errorf("layout count = %d / %d, want 9", info.LayoutCount, len(info.Layouts))
	}
	if math.Abs(info.SlideWidthIn-13.333) > 0.001 {
		t.Errorf("width = %v", info.SlideWidthIn)
	}
	if info.Layouts[0].Name == "" {
		t.Error("layout names missing")
	}
}

func TestInspectRejectsInvalidTemplate(t *testing.T) {
	_, mux, _ := newTestServer(t)
	body, ct := multipartTemplate(t, []byte("not a zip at all"), nil)
	req := httptest.NewRequest(http.MethodPost, "/inspect", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBatchMixedResults(t *testing.T) {
	_, mux, _ := newTestServer(t)
	reqBody := `{"items":[
		{"filename":"ok.pptx","spec":{"slides":[{"type":"blank"}]}},
		{"filename":"bad.pptx","spec":{"slides":[{"type":"chart","categories":["a","b"],"series":{"s":[1]}}]}}
	]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/batch/generate", strings.NewReader(reqBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Total      int           `json:"total"`
		Successful int           `json:"successful"`
		Failed     int           `json:"failed"`
		Results    []batchResult `json:"results"`
		Errors     []batchError  `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || resp.Successful != 1 || resp.Failed != 1 {
		t.Fatalf("totals = %+v", resp)
	}
	if resp.Results[0].Filename != "ok.pptx" || resp.Results[0].Index != 0 {
		t.Errorf("result = %+v", resp.Results[0])
	}
	data, err := base64.StdEncoding.DecodeString(resp.Results[0].DataBase64)
	if err != nil || !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("result payload is not a base64 zip package")
	}
	if resp.Errors[0].Index != 1 || resp.Errors[0].Error == "" {
		t.Errorf("error entry = %+v", resp.Errors[0])
	}
}

func TestBatchLimits(t *testing.T) {
	_, mux, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/batch/generate", strings.NewReader(`{"items":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch: status = %d, want 400", rec.Code)
	}

	// BatchLimit is 3 in the test config; send 4.
	item := `{"filename":"x","spec":{"slides":[{"type":"blank"}]}}`
	over := `{"items":[` + strings.Repeat(item+",", 3) + item + `]}`
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/batch/generate", strings.NewReader(over)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: status = %d, want 400", rec.Code)
	}
}

func TestAcquireRejectsWhenSaturated(t *testing.T) {
	s, _, _ := newTestServer(t)

	releases := make([]func(), 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		release, ok := s.acquire(rec, "generate")
		if !ok {
			t.Fatalf("slot %d should be free", i)
		}
		releases = append(releases, release)
	}

	rec := httptest.NewRecorder()
	if _, ok := s.acquire(rec, "generate"); ok {
		t.Fatal("fifth acquisition should be rejected")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	// Other keys are independent.
	if _, ok := s.acquire(httptest.NewRecorder(), "batch"); !ok {
		t.Error("batch key should not share the generate semaphore")
	}

	releases[0]()
	if _, ok := s.acquire(httptest.NewRecorder(), "generate"); !ok {
		t.Error("released slot should be reusable")
	}
}

func TestWriteGenerationErrorMapsUnknownTo500(t *testing.T) {
	rec := httptest.NewRecorder()
	writeGenerationError(rec, os.ErrPermission)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestSweepTemps(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "deckgen-old")
	fresh := filepath.Join(dir, "deckgen-fresh")
	other := filepath.Join(dir, "keepme")
	for _, d := range []string{old, fresh, other} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	SweepTemps(dir, 30*time.Minute)
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale deckgen dir should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh deckgen dir should survive")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated dir should survive")
	}
}
