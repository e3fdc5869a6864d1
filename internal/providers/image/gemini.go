package image

import (
	"context"
	"fmt"

	"travelshot/internal/pipeline"
)

type geminiImageClient interface {
	GenerateImage(ctx context.Context, prompt string, ref pipeline.Image) (*pipeline.Image, error)
}

// GeminiGenerator sends the composed prompt plus the reference photo to a
// Gemini image model. The subject description is already part of the prompt.
type GeminiGenerator struct {
	client geminiImageClient
}

func NewGeminiGenerator(client geminiImageClient) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req pipeline.GenerateRequest) (*pipeline.Image, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("gemini generator not configured")
	}
	img, err := g.client.GenerateImage(ctx, req.Prompt, req.Reference)
	if err != nil || img == nil {
		return nil, err
	}
	img.MIMEType = normalizeFormat(img.MIMEType)
	return img, nil
}

var _ pipeline.ImageGenerator = (*GeminiGenerator)(nil)
