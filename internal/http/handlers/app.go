package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
	"travelshot/internal/pipeline"
)

// EventSink accepts "record created" events delivered over HTTP.
type EventSink interface {
	Dispatch(ctx context.Context, key domain.JobKey) error
}

type App struct {
	Jobs   domain.PhotoJobRepository
	Store  pipeline.ObjectStore
	Events EventSink
	Logger infra.Logger

	MaxUploadBytes int64
	NewID          func() string
	// Ready reports whether backing services are reachable.
	Ready func(ctx context.Context) error
}

func NewApp(jobs domain.PhotoJobRepository, store pipeline.ObjectStore, logger infra.Logger) *App {
	return &App{
		Jobs:           jobs,
		Store:          store,
		Logger:         logger,
		MaxUploadBytes: 15 << 20,
		NewID:          uuid.NewString,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

func (a *App) log() *zerolog.Logger {
	return &a.Logger
}
