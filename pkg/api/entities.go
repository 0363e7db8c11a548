package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// entityFromRequest builds the entity addressed by the request. The body is
// the entity's current property map; an empty body means no properties.
func (h *Handler) entityFromRequest(r *http.Request, id string) (domain.Entity, error) {
	class := mux.Vars(r)["class"]
	desc, err := h.registry.Describe(class)
	if err != nil {
		return domain.Entity{}, err
	}

	props := domain.Properties{}
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil && !errors.Is(err, io.EOF) {
		return domain.Entity{}, errBadBody{err}
	}

	return domain.Entity{
		ID:         id,
		Class:      class,
		Kind:       desc.EntityKind,
		Properties: props,
	}, nil
}

type errBadBody struct{ err error }

func (e errBadBody) Error() string { return "invalid request body: " + e.err.Error() }

func (h *Handler) rejectEntity(w http.ResponseWriter, r *http.Request, err error) {
	var bad errBadBody
	if errors.As(err, &bad) {
		h.logger.Warn("decoding body failed", "path", r.URL.Path, "error", err)
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeError(w, r, err)
}

// HandleCreateEntity indexes a new entity under a generated ID
func (h *Handler) HandleCreateEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entityFromRequest(r, uuid.NewString())
	if err != nil {
		h.rejectEntity(w, r, err)
		return
	}
	if err := h.indexer.Index(entity); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("entity indexed", "class", entity.Class, "id", entity.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"class":   entity.Class,
		"id":      entity.ID,
	})
}

// HandleIndexEntity indexes the current properties of an entity
func (h *Handler) HandleIndexEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entityFromRequest(r, mux.Vars(r)["id"])
	if err != nil {
		h.rejectEntity(w, r, err)
		return
	}
	if err := h.indexer.Index(entity); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("entity indexed", "class", entity.Class, "id", entity.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"class":   entity.Class,
		"id":      entity.ID,
	})
}

// HandleRemoveEntity drops an entity from its class indexes. The optional
// body carries the last known properties, used for trigger matching.
func (h *Handler) HandleRemoveEntity(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entityFromRequest(r, mux.Vars(r)["id"])
	if err != nil {
		h.rejectEntity(w, r, err)
		return
	}
	if err := h.indexer.Remove(entity); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("entity removed", "class", entity.Class, "id", entity.ID)
	w.WriteHeader(http.StatusNoContent)
}
