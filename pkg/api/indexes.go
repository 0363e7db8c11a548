package api

import (
	"encoding/json"
	"net/http"
)

// HandleGetIndexes lists the physical indexes created so far
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	indexes := h.indexer.Indexes()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"indexes":     indexes,
		"index_count": len(indexes),
	})
}

type prefixBody struct {
	Prefix string `json:"prefix"`
}

// HandleGetPrefix returns the current index name prefix
func (h *Handler) HandleGetPrefix(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prefixBody{Prefix: h.registry.NamePrefix()})
}

// HandleSetPrefix changes the index name prefix. Later writes and queries
// resolve index names with the new prefix.
func (h *Handler) HandleSetPrefix(w http.ResponseWriter, r *http.Request) {
	var body prefixBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.registry.SetNamePrefix(body.Prefix)
	h.logger.Info("index name prefix changed", "prefix", body.Prefix)
	writeJSON(w, http.StatusOK, body)
}
