package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/lookout/pkg/domain/types"
	"github.com/m-mizutani/lookout/pkg/utils/async"
)

// TriggerHandler starts polling runs on demand. The handler accepts a run
// asynchronously and responds immediately; while a triggered run is in
// flight, further triggers are rejected with 409 instead of queueing up.
type TriggerHandler struct {
	running atomic.Bool
	job     Job
}

// NewTriggerHandler creates a trigger handler for the given job
func NewTriggerHandler(job Job) *TriggerHandler {
	return &TriggerHandler{
		job: job,
	}
}

// Handle processes a run trigger request
func (h *TriggerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		writeError(w, types.ErrRunInProgress, http.StatusConflict)
		return
	}

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		defer h.running.Store(false)

		err := h.job(ctx)
		if errors.Is(err, types.ErrRunInProgress) {
			// The scheduler won the race for this cycle
			ctxlog.From(ctx).Warn("Polling run already in progress, trigger skipped")
			return nil
		}
		return err
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode trigger response", "error", err)
	}
}
