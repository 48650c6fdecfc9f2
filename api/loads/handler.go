// Package loads exposes load CRUD and the per-day override editing surface.
// Editing an override is the only way external state is written back.
package loads

import (
	"encoding/json"
	"errors"
	"net/http"

	corelogger "github.com/Cesliva/quant-sub005/core/logger"
	"github.com/Cesliva/quant-sub005/core/model"
	"github.com/Cesliva/quant-sub005/internal/loadstore"
)

// Store is the mutable load collection the handlers operate on.
type Store interface {
	List() []model.Load
	Get(id string) (model.Load, bool)
	Put(l model.Load) model.Load
	Delete(id string) error
	SetOverride(id, date string, hours float64) error
	ClearOverride(id, date string) error
}

type handler struct {
	store Store
	log   corelogger.Logger
}

// NewHandler returns the /api/loads handler tree.
func NewHandler(store Store, log corelogger.Logger) http.Handler {
	h := &handler{store: store, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/loads", h.list)
	mux.HandleFunc("POST /api/loads", h.create)
	mux.HandleFunc("GET /api/loads/{id}", h.get)
	mux.HandleFunc("DELETE /api/loads/{id}", h.delete)
	mux.HandleFunc("PUT /api/loads/{id}/overrides/{date}", h.setOverride)
	mux.HandleFunc("DELETE /api/loads/{id}/overrides/{date}", h.clearOverride)
	return mux
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "load not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var l model.Load
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if l.TotalHours < 0 {
		http.Error(w, "total_hours must be non-negative", http.StatusBadRequest)
		return
	}
	if _, err := l.Start(); err != nil {
		http.Error(w, "start_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if l.Bounded() {
		if _, err := l.End(); err != nil {
			http.Error(w, "end_date must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	stored := h.store.Put(l)
	h.log.Infof("load %s stored", stored.ID)
	writeJSON(w, http.StatusCreated, stored)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type overrideBody struct {
	Hours float64 `json:"hours"`
}

func (h *handler) setOverride(w http.ResponseWriter, r *http.Request) {
	var body overrideBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id, date := r.PathValue("id"), r.PathValue("date")
	if err := h.store.SetOverride(id, date, body.Hours); err != nil {
		writeStoreError(w, err)
		return
	}
	h.log.Debugw("override set", map[string]any{"load": id, "date": date, "hours": body.Hours})
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) clearOverride(w http.ResponseWriter, r *http.Request) {
	id, date := r.PathValue("id"), r.PathValue("date")
	if err := h.store.ClearOverride(id, date); err != nil {
		writeStoreError(w, err)
		return
	}
	h.log.Debugw("override cleared", map[string]any{"load": id, "date": date})
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loadstore.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, loadstore.ErrProjectManaged):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, loadstore.ErrBadDate), errors.Is(err, loadstore.ErrNegativeHours):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
