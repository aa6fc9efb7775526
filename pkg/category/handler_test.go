package category

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveItems(handler *CategoryHandler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/category/{kind}/items", handler.GetItems).Methods("GET")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", target, nil))
	return recorder
}

func TestGetItems(t *testing.T) {
	catalog := &stubCatalog{refs: map[string]EntityRef{
		"mod-1": {Kind: KindModule, Identity: "mod-1", DisplayName: "CA101 Computing"},
		"mod-2": {Kind: KindModule, Identity: "mod-2", DisplayName: "CSC1003 Programming"},
	}}
	router := NewRouter()
	router.Register(catalog, KindModule)
	handler := NewCategoryHandler(router)

	t.Run("search by query", func(t *testing.T) {
		recorder := serveItems(handler, "/api/category/module/items?query=ca101")
		require.Equal(t, http.StatusOK, recorder.Code)

		var refs []EntityRef
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &refs))
		require.Len(t, refs, 1)
		assert.Equal(t, "mod-1", refs[0].Identity)
	})

	t.Run("limit caps the listing", func(t *testing.T) {
		recorder := serveItems(handler, "/api/category/module/items?limit=1")
		require.Equal(t, http.StatusOK, recorder.Code)

		var refs []EntityRef
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &refs))
		assert.Len(t, refs, 1)
	})

	t.Run("unknown kind is a bad request", func(t *testing.T) {
		recorder := serveItems(handler, "/api/category/potato/items")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("invalid limit is a bad request", func(t *testing.T) {
		recorder := serveItems(handler, "/api/category/module/items?limit=zero")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
