package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clipsense/clipsense/internal/api/response"
	"github.com/clipsense/clipsense/internal/processor"
)

// ContentProcessor defines the interface the processing handlers depend on.
type ContentProcessor interface {
	Process(ctx context.Context, req processor.Request) *processor.Response
	Reprocess(ctx context.Context, req processor.Request) *processor.Response
}

// NewProcessHandler returns an http.HandlerFunc for POST /api/v1/process.
func NewProcessHandler(svc ContentProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeProcessRequest(w, r)
		if !ok {
			return
		}
		writeProcessResult(w, svc.Process(r.Context(), req))
	}
}

// NewReprocessHandler returns an http.HandlerFunc for POST /api/v1/reprocess.
// It always runs a fresh analysis, replacing any stored record.
func NewReprocessHandler(svc ContentProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeProcessRequest(w, r)
		if !ok {
			return
		}
		writeProcessResult(w, svc.Reprocess(r.Context(), req))
	}
}

func decodeProcessRequest(w http.ResponseWriter, r *http.Request) (processor.Request, bool) {
	var req processor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return processor.Request{}, false
	}

	if req.ContentID == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "content_id is required", nil)
		return processor.Request{}, false
	}
	if req.ContentURL == "" {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "content_url is required", nil)
		return processor.Request{}, false
	}

	return req, true
}

// writeProcessResult maps the processing outcome to a status code. Failed
// attempts still carry the persisted error record in the body.
func writeProcessResult(w http.ResponseWriter, resp *processor.Response) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	response.Status(w, status, resp)
}
