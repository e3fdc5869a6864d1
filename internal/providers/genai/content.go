package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"travelshot/internal/pipeline"
)

// Describe asks the vision model about img. Every non-empty candidate text is
// returned; a blocked prompt yields no candidates and no error.
func (c *Client) Describe(ctx context.Context, img pipeline.Image, instruction string) ([]string, error) {
	temp := 0.2
	resp, err := c.generateContent(ctx, c.visionModel, geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: inline(img)},
				{Text: instruction},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{Temperature: &temp, CandidateCount: 1},
	})
	if err != nil {
		return nil, err
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		c.logger.Warn().Str("block_reason", resp.PromptFeedback.BlockReason).Msg("genai: description prompt blocked")
	}

	var out []string
	for _, cand := range resp.Candidates {
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

// GenerateImage renders prompt against the reference image and returns the
// first image part of the reply, or nil when the model sent none.
func (c *Client) GenerateImage(ctx context.Context, prompt string, ref pipeline.Image) (*pipeline.Image, error) {
	parts := []geminiPart{{Text: prompt}}
	if !ref.Empty() {
		parts = append(parts, geminiPart{InlineData: inline(ref)})
	}
	resp, err := c.generateContent(ctx, c.imageModel, geminiGenerateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	})
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode inline image: %w", err)
			}
			return &pipeline.Image{Data: data, MIMEType: p.InlineData.MimeType}, nil
		}
		if cand.FinishReason != "" && cand.FinishReason != "STOP" {
			c.logger.Warn().Str("finish_reason", cand.FinishReason).Msg("genai: candidate without image")
		}
	}
	return nil, nil
}

func inline(img pipeline.Image) *geminiInlineData {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return &geminiInlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(img.Data)}
}

var _ pipeline.Vision = (*Client)(nil)
