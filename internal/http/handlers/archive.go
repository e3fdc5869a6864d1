package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"travelshot/internal/domain"
	"travelshot/pkg/zip"
)

// PhotoArchive streams every generated variant of a job as one zip.
func (a *App) PhotoArchive(w http.ResponseWriter, r *http.Request) {
	key := domain.JobKey{OwnerID: chi.URLParam(r, "ownerID"), JobID: chi.URLParam(r, "jobID")}
	if !validID(key.OwnerID) || !validID(key.JobID) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid id")
		return
	}
	job, err := a.Jobs.Get(r.Context(), key)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	if len(job.GeneratedRefs) == 0 {
		a.error(w, http.StatusConflict, "not_ready", "job has no generated variants")
		return
	}

	entries := make([]zip.Entry, 0, len(job.GeneratedRefs))
	for _, ref := range job.GeneratedRefs {
		data, err := a.Store.Get(r.Context(), ref)
		if err != nil {
			a.log().Error().Err(err).Str("ref", ref).Msg("http: load variant failed")
			a.error(w, http.StatusBadGateway, "upstream", "failed to load variant")
			return
		}
		entries = append(entries, zip.Entry{Name: path.Base(ref), Modified: job.UpdatedAt, Data: data})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, key.JobID))
	if err := zip.Write(w, entries); err != nil {
		a.log().Error().Err(err).Str("job_id", key.JobID).Msg("http: write archive failed")
	}
}
