package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/roster"
	"github.com/grupoandino/reportes/pkg/logger"
)

// RosterHandler maintains the advisor base file.
type RosterHandler struct {
	store  *roster.Store
	maxMB  int
	logger *logger.Logger
}

// NewRosterHandler creates a roster handler.
func NewRosterHandler(store *roster.Store, maxMB int, log *logger.Logger) *RosterHandler {
	return &RosterHandler{store: store, maxMB: maxMB, logger: log}
}

// Update replaces the advisor base from an uploaded export. The previous
// file is kept as a timestamped backup.
// POST /actualizar-base-asesores
func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.maxMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("could not read upload: %v", err))
		return
	}

	file, header, err := r.FormFile("base")
	if errors.Is(err, http.ErrMissingFile) {
		respondError(w, http.StatusBadRequest, "falta el archivo base")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := ingest.Decode(header.Filename, bytes.NewReader(raw), contracts.AccessHeadered)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs, err := roster.Parse(ds)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.store.Save(rs); err != nil {
		h.logger.WithError(err).Error("Advisor base save failed")
		respondError(w, http.StatusInternalServerError, "could not save advisor base")
		return
	}

	h.logger.WithField("advisors", len(rs.Entries)).Info("Advisor base updated")
	respondJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: "base de asesores actualizada",
		Records: len(rs.Entries),
	})
}

// Show returns the current advisor base.
// GET /base-asesores
func (h *RosterHandler) Show(w http.ResponseWriter, r *http.Request) {
	rs, err := h.store.Load()
	if err != nil {
		respondError(w, http.StatusNotFound, "base de asesores no disponible")
		return
	}
	respondJSON(w, http.StatusOK, rs.Entries)
}
