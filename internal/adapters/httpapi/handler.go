// Package httpapi exposes the shipyard service over JSON/HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"shipyard/internal/blob"
	"shipyard/internal/core"
	"shipyard/pkg/domain"
)

const maxBodyBytes = 1 << 20

// Archiver captures, lists and reads back fleet snapshots.
type Archiver interface {
	Archive(ctx context.Context) (blob.Info, error)
	List(ctx context.Context) ([]blob.Info, error)
	Load(ctx context.Context, key string) (core.FleetSnapshot, error)
}

// Handler serves the fleet API.
type Handler struct {
	service  *core.Service
	archiver Archiver
	metrics  http.Handler
	logger   *zap.Logger
	router   http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithArchiver enables the /snapshots routes.
func WithArchiver(a Archiver) Option {
	return func(h *Handler) { h.archiver = a }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(m http.Handler) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs the API handler around svc.
func NewHandler(svc *core.Service, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	h.router = h.Routes()
	return h
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/materials", func(r chi.Router) {
		r.Get("/", h.listMaterials)
		r.Post("/", h.createMaterial)
		r.Get("/{id}", h.getMaterial)
		r.Patch("/{id}", h.setMaterialPrice)
		r.Delete("/{id}", h.deleteMaterial)
	})
	r.Route("/ships", func(r chi.Router) {
		r.Get("/", h.listShips)
		r.Post("/", h.createShip)
		r.Get("/{id}", h.getShip)
		r.Patch("/{id}", h.patchShip)
		r.Delete("/{id}", h.deleteShip)
		r.Put("/{id}/costs", h.replaceShipCosts)
	})
	if h.archiver != nil {
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.listSnapshots)
			r.Post("/", h.archiveSnapshot)
			r.Get("/*", h.loadSnapshot)
		})
	}
	return r
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.ListMaterials(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (h *Handler) getMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetMaterial(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	var input domain.NewMaterial
	if !decodeBody(w, r, &input) {
		return
	}
	created, _, err := h.service.CreateMaterial(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/materials/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// setMaterialPrice takes the new price as a bare JSON integer.
func (h *Handler) setMaterialPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var price int64
	if !decodeBody(w, r, &price) {
		return
	}
	updated, _, err := h.service.SetMaterialPrice(r.Context(), id, price)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.DeleteMaterial(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listShips(w http.ResponseWriter, r *http.Request) {
	ships, err := h.service.ListShips(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ships)
}

func (h *Handler) getShip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetShip(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createShip(w http.ResponseWriter, r *http.Request) {
	var input domain.NewShip
	if !decodeBody(w, r, &input) {
		return
	}
	detail, _, err := h.service.CreateShip(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/ships/%d", detail.ID))
	writeJSON(w, http.StatusCreated, detail)
}

func (h *Handler) patchShip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.ShipPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	detail, _, err := h.service.PatchShip(r.Context(), id, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) deleteShip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.DeleteShip(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replaceShipCosts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var lines []domain.CostLine
	if !decodeBody(w, r, &lines) {
		return
	}
	if _, _, err := h.service.ReplaceShipCosts(r.Context(), id, lines); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := h.archiver.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if infos == nil {
		infos = []blob.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *Handler) archiveSnapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.archiver.Archive(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// loadSnapshot accepts either the full blob key or the name under the
// snapshot prefix.
func (h *Handler) loadSnapshot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if !strings.HasPrefix(key, core.SnapshotPrefix) {
		key = core.SnapshotPrefix + key
	}
	snap, err := h.archiver.Load(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

var jsonNull = []byte("null")

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	var raw json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		msg := "invalid request payload"
		if errors.Is(err, io.EOF) {
			msg = "request body required"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	// A bare null would leave dst at its zero value.
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		writeError(w, http.StatusBadRequest, "request body required")
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
