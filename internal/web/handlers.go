package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cogenworks/plantparse/internal/logging"
	"github.com/cogenworks/plantparse/internal/workbook"
)

// errNoDatabase is reported by run history endpoints when the service runs
// without persistence.
var errNoDatabase = errors.New("run history unavailable: no database configured")

// ParseResponse is the body returned by POST /api/parse. RunID is empty when
// persistence is disabled.
type ParseResponse struct {
	RunID  string `json:"run_id,omitempty"`
	Report any    `json:"report"`
}

// handleParse accepts a spreadsheet upload and returns the parse report.
//
// Form fields:
//   - file: the .xlsx, .xlsm, or .csv upload (required)
//   - sheet: sheet name to parse (optional, defaults to the first sheet)
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusRequestEntityTooLarge, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	grid, sheetName, err := workbook.DecodeGrid(file, header.Filename, r.FormValue("sheet"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger := logging.WithFields(r.Context(), "file", header.Filename, "sheet", sheetName)
	logger.Info("parse started", "rows", len(grid))

	report, err := s.parser.ParseSheet(r.Context(), sheetName, grid)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logger.Info("parse completed",
		"cells", len(report.Cells),
		"mapped_columns", report.Metadata.MappedColumns,
		"warnings", len(report.Warnings),
	)

	resp := ParseResponse{Report: report}
	if s.runs != nil {
		runID, err := s.runs.SaveRun(r.Context(), header.Filename, report)
		if err != nil {
			// Persistence failure never loses the report
			logger.Warn("failed to save parse run", "error", err)
		} else {
			resp.RunID = runID
		}
	}

	writeJSON(w, r, resp)
}

// handleRegistries serves the active parameter and asset registries.
func (s *Server) handleRegistries(w http.ResponseWriter, r *http.Request) {
	data, err := s.reg.Export()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to encode registries")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleListRuns returns recent parse run summaries, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.respondError(w, r, errNoDatabase)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list parse runs")
		return
	}
	writeJSON(w, r, runs)
}

// handleGetRun returns one parse run with its full report.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.respondError(w, r, errNoDatabase)
		return
	}

	run, err := s.runs.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "parse run not found")
		return
	}
	writeJSON(w, r, run)
}

// handleHealth reports service liveness, including database reachability
// when persistence is configured.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.runs != nil {
		if err := s.runs.Ping(r.Context()); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeJSON(w, r, map[string]string{"status": "ok"})
}
