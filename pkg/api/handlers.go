package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
	"github.com/adfharrison1/go-graph-index/pkg/indexing"
	"github.com/adfharrison1/go-graph-index/pkg/registry"
)

// Handler provides HTTP handlers for the index API
type Handler struct {
	indexer  domain.IndexEngine
	registry *registry.Registry
	logger   *slog.Logger
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(indexer domain.IndexEngine, reg *registry.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		indexer:  indexer,
		registry: reg,
		logger:   logger,
	}
}

// statusFor maps package errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrClassNotFound):
		return http.StatusNotFound
	case errors.Is(err, indexing.ErrFieldNotIndexed),
		errors.Is(err, indexing.ErrNotNumeric),
		errors.Is(err, indexing.ErrWrongIndexKind),
		errors.Is(err, indexing.ErrCoercion):
		return http.StatusBadRequest
	case errors.Is(err, indexconfig.ErrIndexNameNotRegistered):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
