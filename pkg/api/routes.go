package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Class index configuration
	router.HandleFunc("/classes", h.HandleListClasses).Methods("GET")
	router.HandleFunc("/classes/{class}", h.HandleGetClass).Methods("GET")

	// Entity writes
	router.HandleFunc("/classes/{class}/entities", h.HandleCreateEntity).Methods("POST")
	router.HandleFunc("/classes/{class}/entities/{id}", h.HandleIndexEntity).Methods("PUT")
	router.HandleFunc("/classes/{class}/entities/{id}", h.HandleRemoveEntity).Methods("DELETE")

	// Index queries
	router.HandleFunc("/classes/{class}/find", h.HandleFind).Methods("GET")
	router.HandleFunc("/classes/{class}/range", h.HandleRange).Methods("GET")
	router.HandleFunc("/classes/{class}/search", h.HandleSearch).Methods("GET")

	// Physical indexes and naming
	router.HandleFunc("/indexes", h.HandleGetIndexes).Methods("GET")
	router.HandleFunc("/prefix", h.HandleGetPrefix).Methods("GET")
	router.HandleFunc("/prefix", h.HandleSetPrefix).Methods("PUT")
}
