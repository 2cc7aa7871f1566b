package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/engine"
	"github.com/godamri/helix-audit/sink"
)

type trailEnvelope struct {
	Success bool           `json:"success"`
	Data    []engine.Entry `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func seedTrail(t *testing.T) *sink.Memory {
	t.Helper()
	m := sink.NewMemory()
	require.NoError(t, m.Append(context.Background(), []engine.Entry{
		{ID: uuid.New(), RecordTypeKey: "case", Subject: engine.Subject{TrackingID: 1}, EventKind: engine.EventCreate},
		{ID: uuid.New(), RecordTypeKey: "case", Subject: engine.Subject{TrackingID: 2}, EventKind: engine.EventUpdate},
		{ID: uuid.New(), RecordTypeKey: "task", Subject: engine.Subject{TrackingID: 1}, EventKind: engine.EventDelete},
	}))
	return m
}

func queryTrail(t *testing.T, m *sink.Memory, target string) (*httptest.ResponseRecorder, trailEnvelope) {
	t.Helper()
	r := chi.NewRouter()
	NewTrailHandler(m).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env trailEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestTrailQueryByType(t *testing.T) {
	rec, env := queryTrail(t, seedTrail(t), "/audit/trail?type=case")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	for _, e := range env.Data {
		assert.Equal(t, "case", e.RecordTypeKey)
	}
}

func TestTrailQueryByTrackingIDAndEvent(t *testing.T) {
	rec, env := queryTrail(t, seedTrail(t), "/audit/trail?tracking_id=1&event=Delete")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "task", env.Data[0].RecordTypeKey)
}

func TestTrailQueryLimit(t *testing.T) {
	rec, env := queryTrail(t, seedTrail(t), "/audit/trail?limit=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data, 1)
}

func TestTrailQueryRejectsBadTrackingID(t *testing.T) {
	rec, env := queryTrail(t, seedTrail(t), "/audit/trail?tracking_id=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
}

func TestTrailQueryRejectsNegativeLimit(t *testing.T) {
	rec, _ := queryTrail(t, seedTrail(t), "/audit/trail?limit=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpointMounted(t *testing.T) {
	r := chi.NewRouter()
	NewTrailHandler(sink.NewMemory()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
