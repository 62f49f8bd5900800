package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/grupoandino/reportes/internal/archive"
	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/report"
	"github.com/grupoandino/reportes/internal/roster"
	"github.com/grupoandino/reportes/internal/workbook"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// ReportHandler drives the report pipelines from uploaded exports.
type ReportHandler struct {
	builder *report.Builder
	store   *roster.Store
	runs    *archive.Repository
	cfg     config.ReportConfig
	logger  *logger.Logger

	mu    sync.RWMutex
	files map[string]string
}

// NewReportHandler creates a report handler. runs may be nil when no
// database is configured.
func NewReportHandler(
	builder *report.Builder,
	store *roster.Store,
	runs *archive.Repository,
	cfg config.ReportConfig,
	log *logger.Logger,
) *ReportHandler {
	return &ReportHandler{
		builder: builder,
		store:   store,
		runs:    runs,
		cfg:     cfg,
		logger:  log,
		files:   make(map[string]string),
	}
}

// parseUpload bounds and parses the multipart form.
func (h *ReportHandler) parseUpload(w http.ResponseWriter, r *http.Request) error {
	maxBytes := int64(h.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return fmt.Errorf("could not read upload: %w", err)
	}
	return nil
}

// dataset decodes one uploaded file field. A missing field yields a nil
// dataset; callers decide which sources are required.
func (h *ReportHandler) dataset(r *http.Request, field string, access contracts.Access) (*contracts.Dataset, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	h.stashUpload(header.Filename, raw)

	ds, err := ingest.Decode(header.Filename, bytes.NewReader(raw), access)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field, err)
	}
	return ds, nil
}

// stashUpload keeps a copy of the raw upload in the temp directory for
// the retention window. Failures only cost the copy.
func (h *ReportHandler) stashUpload(name string, raw []byte) {
	if err := os.MkdirAll(h.cfg.TempDir, 0o755); err != nil {
		h.logger.WithError(err).Warn("Could not create temp dir")
		return
	}
	path := filepath.Join(h.cfg.TempDir, uuid.NewString()+"_"+filepath.Base(name))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		h.logger.WithError(err).Warn("Could not stash upload")
	}
}

// loadRoster reads the advisor base fresh for each request.
func (h *ReportHandler) loadRoster() *contracts.Roster {
	rs, err := h.store.Load()
	if err != nil {
		h.logger.WithError(err).Warn("Advisor base unavailable")
		return &contracts.Roster{}
	}
	return rs
}

// finish saves the workbook, archives the run, and writes the response.
func (h *ReportHandler) finish(ctx context.Context, w http.ResponseWriter, kind string, rep *contracts.Report, buildErr error) {
	if h.runs != nil {
		runID := ""
		if rep != nil {
			runID = rep.RunID
		} else {
			runID = uuid.NewString()
		}
		if err := h.runs.CreateRun(ctx, runID, kind); err != nil {
			h.logger.WithError(err).Warn("Could not archive run start")
		} else if err := h.runs.FinishRun(ctx, runID, rep, buildErr); err != nil {
			h.logger.WithError(err).Warn("Could not archive run outcome")
		}
	}

	if buildErr != nil {
		h.logger.WithError(buildErr).WithField("kind", kind).Error("Report build failed")
		respondError(w, http.StatusUnprocessableEntity, buildErr.Error())
		return
	}

	path := filepath.Join(h.cfg.OutputDir, rep.Filename)
	if err := workbook.Save(rep, path); err != nil {
		h.logger.WithError(err).WithField("kind", kind).Error("Workbook save failed")
		respondError(w, http.StatusInternalServerError, "could not write workbook")
		return
	}

	h.mu.Lock()
	h.files[rep.RunID] = path
	h.mu.Unlock()

	h.logger.WithFields(map[string]interface{}{
		"kind":    kind,
		"run_id":  rep.RunID,
		"file":    rep.Filename,
		"records": rep.Stats.Records,
	}).Info("Report generated")

	respondJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: "reporte generado",
		RunID:   rep.RunID,
		File:    rep.Filename,
		Records: rep.Stats.Records,
	})
}

// ProcessQuality builds the full quality workbook.
// POST /procesar-calidad
func (h *ReportHandler) ProcessQuality(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := report.Inputs{Roster: h.loadRoster()}
	var err error
	fields := []struct {
		name string
		dst  **contracts.Dataset
	}{
		{"operaciones", &in.Operations},
		{"asistencia", &in.Attendance},
		{"isabel", &in.PBX},
		{"voip", &in.VOIP},
		{"biometrico", &in.Clock},
	}
	for _, f := range fields {
		if *f.dst, err = h.dataset(r, f.name, contracts.AccessHeadered); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if in.Operations == nil {
		respondError(w, http.StatusBadRequest, "falta el archivo de operaciones")
		return
	}

	rep, buildErr := h.builder.BuildQuality(r.Context(), in)
	h.finish(r.Context(), w, "calidad", rep, buildErr)
}

// ProcessCalls builds the call report from the PBX export, with an
// optional VOIP companion.
// POST /procesar-llamadas
func (h *ReportHandler) ProcessCalls(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pbx, err := h.dataset(r, "isabel", contracts.AccessHeadered)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	voip, err := h.dataset(r, "voip", contracts.AccessHeadered)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pbx == nil && voip == nil {
		respondError(w, http.StatusBadRequest, "falta el archivo de llamadas")
		return
	}

	rep, buildErr := h.builder.BuildCalls(r.Context(), pbx, voip, h.loadRoster())
	h.finish(r.Context(), w, "llamadas", rep, buildErr)
}

// ProcessVOIP builds the call report from the VOIP export alone.
// POST /procesar-voip
func (h *ReportHandler) ProcessVOIP(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	voip, err := h.dataset(r, "voip", contracts.AccessHeadered)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if voip == nil {
		respondError(w, http.StatusBadRequest, "falta el archivo voip")
		return
	}

	rep, buildErr := h.builder.BuildCalls(r.Context(), nil, voip, h.loadRoster())
	h.finish(r.Context(), w, "voip", rep, buildErr)
}

// ProcessAdmin splits the headerless admin export into daily sheets.
// POST /procesar-admin
func (h *ReportHandler) ProcessAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.dataset(r, "admin", contracts.AccessPositional)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if admin == nil {
		respondError(w, http.StatusBadRequest, "falta el archivo admin")
		return
	}

	rep, buildErr := h.builder.BuildAdmin(r.Context(), admin)
	h.finish(r.Context(), w, "admin", rep, buildErr)
}

// ProcessReporteria joins the operations export against the roster.
// POST /procesar-reporteria
func (h *ReportHandler) ProcessReporteria(w http.ResponseWriter, r *http.Request) {
	if err := h.parseUpload(w, r); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ops, err := h.dataset(r, "operaciones", contracts.AccessHeadered)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ops == nil {
		respondError(w, http.StatusBadRequest, "falta el archivo de operaciones")
		return
	}

	rep, buildErr := h.builder.BuildReporteria(r.Context(), ops, h.loadRoster())
	h.finish(r.Context(), w, "reporteria", rep, buildErr)
}

// Download serves a generated workbook by run id.
// GET /descargar/{id}
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	h.mu.RLock()
	path, ok := h.files[runID]
	h.mu.RUnlock()
	if !ok {
		respondError(w, http.StatusNotFound, "reporte no encontrado")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
