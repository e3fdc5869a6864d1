package pipeline

import (
	"context"
	"fmt"
	"strings"

	"travelshot/internal/domain"
)

// DefaultDescribeInstruction asks for a short, re-identifiable description of
// the person in the reference photo.
const DefaultDescribeInstruction = `Describe the person in this photo for use as SUBJECT_DESCRIPTION in an image generation model.
Answer in 2-3 short phrases only, no full sentences.
Include: facial structure, hair color and style, skin tone, body build, clothing, approximate age range and any notable features.
Example format: "young woman with long dark wavy hair and olive skin, slim build, white linen shirt" or "middle-aged man with short grey hair and a trimmed beard, broad build"`

// Describer turns the reference image into a subject description with a
// single vision call.
type Describer struct {
	vision      Vision
	instruction string
}

// NewDescriber returns a Describer using instruction, or the default one when
// empty.
func NewDescriber(vision Vision, instruction string) *Describer {
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultDescribeInstruction
	}
	return &Describer{vision: vision, instruction: instruction}
}

// Describe calls the vision capability once. Every failure is fatal for the
// job: an error, zero candidates, or only blank candidates.
func (d *Describer) Describe(ctx context.Context, img Image) (string, error) {
	if img.Empty() {
		return "", domain.Fatal("describe", fmt.Errorf("reference image is empty"))
	}
	candidates, err := d.vision.Describe(ctx, img, d.instruction)
	if err != nil {
		return "", domain.Fatal("describe", err)
	}
	for _, c := range candidates {
		if text := cleanDescription(c); text != "" {
			return text, nil
		}
	}
	return "", domain.Fatal("describe", domain.ErrNoCandidates)
}

func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSuffix(s, ".")
}
