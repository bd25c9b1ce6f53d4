package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Rows: []engine.SummaryRow{
			{FinishTime: 3, NodeID: 1, NodeLocalPID: 1, RunTime: 3},
		},
		DeadlockedPIDs: []int{2},
	}
}

func sampleEvents() []engine.TraceEvent {
	return []engine.TraceEvent{
		{NodeID: 1, NodeClock: 0, NodeLocalPID: 1, Label: "new"},
	}
}

func TestServer_Healthz(t *testing.T) {
	s := New("run-123", sampleResult(), sampleEvents())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "run-123", body["run_id"])
}

func TestServer_Trace(t *testing.T) {
	s := New("", sampleResult(), sampleEvents())
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var events []engine.TraceEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Label)
}

func TestServer_Summary(t *testing.T) {
	s := New("", sampleResult(), sampleEvents())
	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, []int{2}, resp.DeadlockedPIDs)
}

func TestServer_Summary_NilResult(t *testing.T) {
	s := New("", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
