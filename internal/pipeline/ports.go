// Package pipeline runs one photo job end to end: it describes the subject,
// composes the prompt, generates the variants and records progress.
package pipeline

import (
	"context"
)

// Image is an encoded picture plus its content type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the image carries no payload.
func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}

// Vision describes an image. It returns every candidate text the model
// produced; an empty slice is a valid reply.
type Vision interface {
	Describe(ctx context.Context, img Image, instruction string) ([]string, error)
}

// GenerateRequest is one image-generation call.
type GenerateRequest struct {
	Prompt             string
	SubjectDescription string
	Reference          Image
}

// ImageGenerator produces one image per call. A nil image with a nil error
// means the model answered without a payload. Errors wrapping
// domain.ErrRateLimited or domain.ErrTransient are retried.
type ImageGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Image, error)
}

// ObjectStore reads the reference upload and stores generated artifacts.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ReferenceFetcher downloads a reference image addressed by URL.
type ReferenceFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
