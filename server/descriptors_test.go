package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/schema"
	"github.com/godamri/helix-audit/store"
)

func descriptorRouter(t *testing.T) *chi.Mux {
	t.Helper()
	metadata := store.NewMemoryMetadataStore()
	metadata.Publish(&schema.RecordType{
		Key: "case", Name: "Case", Label: "Case", Table: "t_case", Generation: 3,
		Fields: []schema.FieldDescriptor{
			{Name: "Status", StorageKey: "c_status", Kind: schema.KindYesNo},
			{Name: "Severity", StorageKey: "c_severity", Kind: schema.KindNumber, LookupBound: true, LookupKey: "lkp_severity"},
		},
	})

	r := chi.NewRouter()
	NewDescriptorHandler(schema.NewResolver(metadata, nil, nil)).RegisterRoutes(r)
	return r
}

func TestDescriptorsResolvePublishedShape(t *testing.T) {
	rec := httptest.NewRecorder()
	descriptorRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/descriptors/case", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data schema.RecordType `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "case", env.Data.Key)
	assert.Equal(t, int64(3), env.Data.Generation)
	require.Len(t, env.Data.Fields, 2)
	assert.Equal(t, "lkp_severity", env.Data.Fields[1].LookupKey)
}

func TestDescriptorsUnknownTypeIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	descriptorRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/descriptors/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
