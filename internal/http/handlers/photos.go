package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"travelshot/internal/domain"
)

const uploadField = "photo"

type createPhotoRequest struct {
	JobID         string `json:"job_id"`
	ReferencePath string `json:"reference_path"`
	ReferenceURL  string `json:"reference_url"`
	domain.Preferences
}

// CreatePhoto stores a pending record. The reference is either a JSON
// path/url or a multipart upload in the "photo" field. Uploads for a job id
// that already exists are rejected before anything is stored.
func (a *App) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if !validID(ownerID) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid owner id")
		return
	}

	var (
		req  createPhotoRequest
		ok   bool
		code int
		msg  string
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, code, msg, ok = a.readUpload(w, r, ownerID)
	} else {
		req, code, msg, ok = readJSONRequest(r)
	}
	if !ok {
		a.error(w, code, statusCode(code), msg)
		return
	}
	if req.JobID == "" {
		req.JobID = a.NewID()
	}

	job := &domain.PhotoJob{
		OwnerID:       ownerID,
		JobID:         req.JobID,
		Status:        domain.JobStatusPending,
		ReferencePath: req.ReferencePath,
		ReferenceURL:  req.ReferenceURL,
		Preferences:   req.Preferences,
		GeneratedRefs: []string{},
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			a.error(w, http.StatusConflict, "conflict", "job already exists")
			return
		}
		a.log().Error().Err(err).Str("owner_id", ownerID).Str("job_id", job.JobID).Msg("http: create job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create job")
		return
	}

	a.log().Info().Str("owner_id", ownerID).Str("job_id", job.JobID).Msg("http: job created")
	w.Header().Set("Location", fmt.Sprintf("/v1/users/%s/photos/%s", ownerID, job.JobID))
	a.json(w, http.StatusCreated, job)
}

func (a *App) GetPhoto(w http.ResponseWriter, r *http.Request) {
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
		a.log().Error().Err(err).Str("owner_id", key.OwnerID).Str("job_id", key.JobID).Msg("http: load job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, job)
}

func readJSONRequest(r *http.Request) (createPhotoRequest, int, string, bool) {
	var req createPhotoRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		return req, http.StatusBadRequest, "invalid payload", false
	}
	req.ReferencePath = strings.TrimSpace(req.ReferencePath)
	req.ReferenceURL = strings.TrimSpace(req.ReferenceURL)
	switch {
	case req.ReferencePath == "" && req.ReferenceURL == "":
		return req, http.StatusBadRequest, "reference_path or reference_url required", false
	case req.ReferencePath != "" && req.ReferenceURL != "":
		return req, http.StatusBadRequest, "only one of reference_path and reference_url allowed", false
	}
	if req.ReferenceURL != "" && !strings.HasPrefix(req.ReferenceURL, "http://") && !strings.HasPrefix(req.ReferenceURL, "https://") {
		return req, http.StatusBadRequest, "reference_url must be http(s)", false
	}
	if req.JobID != "" && !validID(req.JobID) {
		return req, http.StatusBadRequest, "invalid job id", false
	}
	return req, 0, "", true
}

func (a *App) readUpload(w http.ResponseWriter, r *http.Request, ownerID string) (createPhotoRequest, int, string, bool) {
	var req createPhotoRequest
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, http.StatusRequestEntityTooLarge, "upload too large", false
		}
		return req, http.StatusBadRequest, "invalid multipart payload", false
	}
	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return req, http.StatusBadRequest, uploadField + " file required", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, a.MaxUploadBytes+1))
	if err != nil {
		return req, http.StatusBadRequest, "failed to read upload", false
	}
	if int64(len(data)) > a.MaxUploadBytes {
		return req, http.StatusRequestEntityTooLarge, "upload too large", false
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return req, http.StatusUnsupportedMediaType, "upload must be an image", false
	}

	req.JobID = strings.TrimSpace(r.FormValue("job_id"))
	if req.JobID == "" {
		req.JobID = a.NewID()
	}
	if !validID(req.JobID) {
		return req, http.StatusBadRequest, "invalid job id", false
	}
	key := domain.JobKey{OwnerID: ownerID, JobID: req.JobID}
	if _, err := a.Jobs.Get(r.Context(), key); err == nil {
		return req, http.StatusConflict, "job already exists", false
	} else if !errors.Is(err, domain.ErrNotFound) {
		a.log().Error().Err(err).Str("owner_id", ownerID).Str("job_id", req.JobID).Msg("http: load job failed")
		return req, http.StatusInternalServerError, "failed to load job", false
	}

	req.Preferences = domain.Preferences{
		SceneType: r.FormValue("scene_type"),
		ShotType:  r.FormValue("shot_type"),
		TimeOfDay: r.FormValue("time_of_day"),
		Place:     r.FormValue("place"),
	}

	// The suffix keeps a racing create for the same job id from replacing an
	// existing reference.
	objectKey := fmt.Sprintf("uploads/%s/%s-%s%s", ownerID, req.JobID, a.NewID(), mt.Extension())
	if _, err := a.Store.Put(r.Context(), objectKey, data, mt.String()); err != nil {
		a.log().Error().Err(err).Str("key", objectKey).Msg("http: store upload failed")
		return req, http.StatusBadGateway, "failed to store upload", false
	}
	req.ReferencePath = objectKey
	return req, 0, "", true
}

// validID accepts identifiers safe to embed in object keys.
func validID(id string) bool {
	if id == "" || len(id) > 128 || id == "." || id == ".." {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

func statusCode(code int) string {
	switch code {
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusBadGateway:
		return "upstream"
	case http.StatusConflict:
		return "conflict"
	case http.StatusInternalServerError:
		return "internal"
	default:
		return "bad_request"
	}
}
