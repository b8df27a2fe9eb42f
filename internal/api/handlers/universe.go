package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/onlystock/stock-momentum/internal/contracts"
	"github.com/onlystock/stock-momentum/internal/s0_universe"
)

// ListUniverses returns the supported source names
// GET /api/universes
func (h *RankingHandler) ListUniverses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sources": s0_universe.Names(),
		"default": h.defaults.Universe.Source,
	})
}

// GetUniverse resolves a source and returns its instruments
// GET /api/universes/{name}
func (h *RankingHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !s0_universe.IsValidName(name) {
		respondError(w, http.StatusNotFound, "Unknown universe: "+name)
		return
	}

	universe, err := h.universes(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	instruments, err := h.runner.ResolveUniverse(r.Context(), universe)
	if err != nil {
		h.logger.WithError(err).WithField("source", name).Warn("Universe resolution failed")
		status := http.StatusInternalServerError
		if errors.Is(err, contracts.ErrSourceUnavailable) {
			status = http.StatusBadGateway
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"source":      name,
		"count":       len(instruments),
		"instruments": instruments,
	})
}
