// Package image adapts the concrete image models to the pipeline's
// ImageGenerator port.
package image

import (
	"fmt"
	"strings"

	"travelshot/internal/pipeline"
)

const (
	ProviderGemini = "gemini"
	ProviderImagen = "imagen"
)

// Backends holds the constructed model clients New can choose from.
type Backends struct {
	Gemini geminiImageClient
	Imagen *ImagenGenerator
}

// New returns the generator registered for provider. Unknown names and
// missing backends are configuration errors.
func New(provider string, b Backends) (pipeline.ImageGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGemini:
		if b.Gemini == nil {
			return nil, fmt.Errorf("image: gemini backend not configured")
		}
		return NewGeminiGenerator(b.Gemini), nil
	case ProviderImagen:
		if b.Imagen == nil {
			return nil, fmt.Errorf("image: imagen backend not configured")
		}
		return b.Imagen, nil
	default:
		return nil, fmt.Errorf("image: unknown provider %q", provider)
	}
}

func normalizeFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "":
		return "image/png"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}
