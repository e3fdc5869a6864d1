package composer

import (
	"fmt"
	"strings"

	"travelshot/internal/descriptor"
)

// Detailed is the sectioned photographer's brief.
type Detailed struct{}

func (Detailed) Compose(in Input) string {
	r := resolve(in)
	tok := descriptor.SubjectToken

	var b strings.Builder
	b.WriteString("TASK: Create a highly realistic professional travel photograph of one real person.\n\n")

	b.WriteString("SUBJECT IDENTITY:\n")
	b.WriteString(fmt.Sprintf("- The subject %s is %s.\n", tok, r.subject))
	b.WriteString(fmt.Sprintf("- %s is the single main subject and must be the same person shown in the reference image.\n\n", tok))

	b.WriteString("SCENE:\n")
	b.WriteString(fmt.Sprintf("- Location: %s.\n", r.scene))
	b.WriteString("- Clearly recognizable as a real-world destination with visible environmental detail.\n\n")

	b.WriteString("CAMERA COMPOSITION:\n")
	b.WriteString(fmt.Sprintf("- %s.\n", r.shot.Phrase))
	b.WriteString("- Natural relaxed pose, authentic candid travel moment.\n\n")

	b.WriteString("LIGHTING:\n")
	b.WriteString(fmt.Sprintf("- Time of day: %s, %s.\n", strings.ToLower(r.lighting.Label), r.lighting.Phrase))
	writeSection(&b, "Light", []string{
		"Color temperature: " + r.lighting.ColorTemperature,
		"Sensor gain: " + r.lighting.SensorGain,
		"Shadows: " + r.lighting.ShadowCharacter,
		"Sky: " + r.lighting.Sky,
		"Direction: " + r.lighting.LightDirection,
		"Contrast: " + r.lighting.Contrast,
		"Exposure: " + r.lighting.ExposureNote,
		"Notes: " + r.lighting.SpecialNotes,
	})
	writeSection(&b, "Environment", []string{
		"Setting: " + indoorLabel(r.place.Indoor),
		"Reflective surfaces: " + r.place.ReflectiveSurface,
		"Exposure adjustment: " + r.place.ExposureAdjustment,
		"Color cast: " + r.place.ColorCast,
		"Special lighting: " + r.place.SpecialLighting,
		"Atmosphere: " + r.place.Atmosphere,
		"Ground: " + r.place.GroundSurface,
		"Depth: " + r.place.DepthElements,
	})
	b.WriteString("\n")

	if ns := notes(r.place, r.lighting); len(ns) > 0 {
		b.WriteString("LIGHTING OVERRIDES:\n")
		for _, n := range ns {
			b.WriteString("- " + n + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("IDENTITY MATCHING:\n")
	b.WriteString(fmt.Sprintf("- %s must keep the reference person's face, facial structure and expression range.\n", tok))
	b.WriteString("- Keep the same hair color, length and style.\n")
	b.WriteString("- Keep the same skin tone under the scene's light.\n")
	b.WriteString("- Keep the same body build and proportions.\n\n")

	b.WriteString("AUTHENTICITY:\n")
	b.WriteString("- Naturalistic capture artifacts: slight sensor grain, natural lens falloff, realistic depth of field.\n")
	b.WriteString("- No studio lighting, no flash look, no backdrop.\n")
	b.WriteString("- No over-smoothing or plastic skin; keep pores and fine texture.\n")
	b.WriteString("- Realistic natural colors and accurate skin tones.\n\n")

	b.WriteString("FORBIDDEN:\n")
	b.WriteString(fmt.Sprintf("- No duplicate subjects or copies of %s.\n", tok))
	b.WriteString("- No added people resembling the subject; background passers-by stay anonymous and out of focus.\n")
	b.WriteString("- No altering identity, age, ethnicity or body shape.\n")
	b.WriteString("- No text, watermarks, borders or distortions.\n")
	return b.String()
}

func indoorLabel(indoor bool) string {
	if indoor {
		return "indoor"
	}
	return "outdoor"
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("- " + title + ":\n")
	for _, line := range lines {
		b.WriteString("  - " + line + "\n")
	}
}
