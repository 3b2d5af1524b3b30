package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipsense/clipsense/internal/processor"
)

// --- mock ContentProcessor ---

type mockProcessor struct {
	processFn   func(req processor.Request) *processor.Response
	reprocessFn func(req processor.Request) *processor.Response
}

func (m *mockProcessor) Process(_ context.Context, req processor.Request) *processor.Response {
	return m.processFn(req)
}

func (m *mockProcessor) Reprocess(_ context.Context, req processor.Request) *processor.Response {
	return m.reprocessFn(req)
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Data
}

func decodeErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error.Code
}

// --- tests ---

func TestProcessHandler_Success(t *testing.T) {
	var captured processor.Request
	svc := &mockProcessor{processFn: func(req processor.Request) *processor.Response {
		captured = req
		return &processor.Response{Success: true, Message: "Content analyzed successfully"}
	}}

	h := NewProcessHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postJSON(t, "/api/v1/process", map[string]any{
		"content_id":  "vid-1",
		"content_url": "https://youtu.be/abc",
		"provider":    "mistral",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vid-1", captured.ContentID)
	assert.Equal(t, "mistral", captured.Provider)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["success"])
}

func TestProcessHandler_FailureIsUnprocessable(t *testing.T) {
	svc := &mockProcessor{processFn: func(_ processor.Request) *processor.Response {
		return &processor.Response{Success: false, Message: "No transcript available"}
	}}

	h := NewProcessHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postJSON(t, "/api/v1/process", map[string]any{
		"content_id":  "vid-1",
		"content_url": "https://youtu.be/abc",
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, false, data["success"])
	assert.Equal(t, "No transcript available", data["message"])
}

func TestProcessHandler_InvalidJSON(t *testing.T) {
	h := NewProcessHandler(&mockProcessor{})
	rec := httptest.NewRecorder()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/process", bytes.NewReader([]byte("{not json")))
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeErrCode(t, rec))
}

func TestProcessHandler_MissingContentID(t *testing.T) {
	h := NewProcessHandler(&mockProcessor{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postJSON(t, "/api/v1/process", map[string]any{
		"content_url": "https://youtu.be/abc",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessHandler_MissingContentURL(t *testing.T) {
	h := NewProcessHandler(&mockProcessor{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postJSON(t, "/api/v1/process", map[string]any{
		"content_id": "vid-1",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReprocessHandler_ForcesFreshRun(t *testing.T) {
	reprocessed := false
	svc := &mockProcessor{
		processFn: func(_ processor.Request) *processor.Response {
			t.Fatal("Process should not be called")
			return nil
		},
		reprocessFn: func(_ processor.Request) *processor.Response {
			reprocessed = true
			return &processor.Response{Success: true}
		},
	}

	h := NewReprocessHandler(svc)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postJSON(t, "/api/v1/reprocess", map[string]any{
		"content_id":  "vid-1",
		"content_url": "https://youtu.be/abc",
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reprocessed)
}
