package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/campussync/campussync/internal/rest"
)

const defaultSearchLimit = 20

type CategoryHandler struct {
	router *Router
}

func NewCategoryHandler(router *Router) *CategoryHandler {
	return &CategoryHandler{router: router}
}

// GetItems serves GET /api/category/{kind}/items, the searchable listing
// clients build their selection from.
func (handler *CategoryHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	log.Debug("Searching category items")
	w.Header().Set("Content-Type", "application/json")

	kind, err := KindFromString(mux.Vars(r)["kind"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "unknown category kind", mux.Vars(r)["kind"])
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			rest.WriteError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = parsed
	}

	refs, err := handler.router.Search(r.Context(), kind, r.URL.Query().Get("query"), limit)
	if err != nil {
		if errors.Is(err, ErrUpstreamUnavailable) {
			rest.WriteError(w, http.StatusBadGateway, "upstream unavailable", err.Error())
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "search failed", err.Error())
		return
	}

	if err := json.NewEncoder(w).Encode(refs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
