package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cogenworks/plantparse/internal/config"
	"github.com/cogenworks/plantparse/internal/engine"
	"github.com/cogenworks/plantparse/internal/registry"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: time.Minute,
		},
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
		},
	}
	reg := registry.Default()
	parser := engine.NewParser(reg, engine.Options{})
	return NewServer(cfg, reg, parser, nil)
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleParse_CSV(t *testing.T) {
	s := testServer(t)

	csv := "Coal Consumption AFBC-1,Steam Generation,Efficiency\n1234.5,450,85%\n"
	body, contentType := multipartUpload(t, "daily.csv", []byte(csv), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		RunID  string         `json:"run_id"`
		Report *engine.Report `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.RunID != "" {
		t.Errorf("RunID = %q, want empty without persistence", resp.RunID)
	}
	if resp.Report == nil {
		t.Fatal("no report in response")
	}
	if len(resp.Report.Cells) != 3 {
		t.Errorf("len(Cells) = %d, want 3", len(resp.Report.Cells))
	}
	if got := resp.Report.DetectedAssets; len(got) != 1 || got[0] != "AFBC-1" {
		t.Errorf("DetectedAssets = %v", got)
	}
}

func TestHandleParse_NoFile(t *testing.T) {
	s := testServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("sheet", "Sheet1")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code == "" {
		t.Error("error response missing code")
	}
}

func TestHandleParse_UnsupportedType(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartUpload(t, "report.pdf", []byte("%PDF"), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRegistries(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/registries", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Parameters []registry.ParameterDefinition `json:"parameters"`
		Assets     []registry.AssetDefinition     `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode registries: %v", err)
	}
	if len(payload.Parameters) == 0 || len(payload.Assets) == 0 {
		t.Errorf("registries empty: %d params, %d assets", len(payload.Parameters), len(payload.Assets))
	}
}

func TestHandleListRuns_NoDatabase(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
