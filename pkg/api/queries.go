package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// QueryResponse is returned by every index query
type QueryResponse struct {
	Class string   `json:"class"`
	Field string   `json:"field"`
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

func respondIDs(w http.ResponseWriter, class, field string, ids []string) {
	writeJSON(w, http.StatusOK, QueryResponse{Class: class, Field: field, IDs: ids, Count: len(ids)})
}

func requireParams(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, bool) {
	out := make(map[string]string, len(names))
	q := r.URL.Query()
	for _, name := range names {
		v := q.Get(name)
		if v == "" {
			WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("query parameter %q is required", name))
			return nil, false
		}
		out[name] = v
	}
	return out, true
}

// HandleFind handles exact-match lookups: ?field=&value=
// The value is passed on as text; the field's configuration decides whether
// it is read as a number or a bool.
func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]
	params, ok := requireParams(w, r, "field", "value")
	if !ok {
		return
	}

	ids, err := h.indexer.Find(class, params["field"], params["value"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondIDs(w, class, params["field"], ids)
}

// HandleRange handles numeric range lookups: ?field=&min=&max=
func (h *Handler) HandleRange(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]
	params, ok := requireParams(w, r, "field", "min", "max")
	if !ok {
		return
	}

	min, err := strconv.ParseFloat(params["min"], 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "min must be a number")
		return
	}
	max, err := strconv.ParseFloat(params["max"], 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "max must be a number")
		return
	}

	ids, err := h.indexer.Range(class, params["field"], min, max)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondIDs(w, class, params["field"], ids)
}

// HandleSearch handles fulltext queries: ?field=&q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]
	params, ok := requireParams(w, r, "field", "q")
	if !ok {
		return
	}

	ids, err := h.indexer.Search(class, params["field"], params["q"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondIDs(w, class, params["field"], ids)
}
