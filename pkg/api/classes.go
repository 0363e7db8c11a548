package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
)

// ClassResponse describes one class and its index configuration
type ClassResponse struct {
	Name   string                  `json:"name"`
	Parent string                  `json:"parent,omitempty"`
	Config indexconfig.Description `json:"config"`
}

// HandleListClasses handles GET requests listing every registered class
func (h *Handler) HandleListClasses(w http.ResponseWriter, r *http.Request) {
	classes := h.registry.Classes()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"classes": classes,
		"count":   len(classes),
		"prefix":  h.registry.NamePrefix(),
	})
}

// HandleGetClass handles GET requests for one class configuration
func (h *Handler) HandleGetClass(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]

	desc, err := h.registry.Describe(class)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	parent, err := h.registry.Parent(class)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ClassResponse{Name: class, Parent: parent, Config: desc})
}
