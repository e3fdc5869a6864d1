package genai

import (
	"fmt"
	"net/http"

	"travelshot/internal/domain"
)

// APIError is a non-2xx reply from a Google generative endpoint.
type APIError struct {
	Service string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	service := e.Service
	if service == "" {
		service = "gemini"
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s status %d %s: %s", service, e.Status, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s status %d: %s", service, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s status %d", service, e.Status)
	}
}

// Unwrap exposes the retry classification: throttling maps to
// domain.ErrRateLimited, server-side failures to domain.ErrTransient.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusTooManyRequests || e.Code == "RESOURCE_EXHAUSTED":
		return domain.ErrRateLimited
	case e.Status >= http.StatusInternalServerError || e.Code == "UNAVAILABLE" || e.Code == "INTERNAL" || e.Code == "DEADLINE_EXCEEDED":
		return domain.ErrTransient
	default:
		return nil
	}
}
