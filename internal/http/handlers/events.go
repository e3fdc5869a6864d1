package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"travelshot/internal/domain"
)

type photoCreatedEvent struct {
	OwnerID string `json:"owner_id"`
	JobID   string `json:"job_id"`
}

// PhotoCreated accepts a creation event from an external trigger and hands
// it to the dispatcher. Delivery is at-least-once safe.
func (a *App) PhotoCreated(w http.ResponseWriter, r *http.Request) {
	if a.Events == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "event processing disabled")
		return
	}
	var ev photoCreatedEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&ev); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	key := domain.JobKey{OwnerID: ev.OwnerID, JobID: ev.JobID}
	if err := key.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if _, err := a.Jobs.Get(r.Context(), key); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	if err := a.Events.Dispatch(r.Context(), key); err != nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "dispatcher busy")
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
