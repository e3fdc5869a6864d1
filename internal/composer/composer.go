// Package composer turns a subject description and descriptor keys into the
// final generation instruction.
package composer

import (
	"strings"

	"travelshot/internal/descriptor"
)

const (
	StyleDetailed = "detailed"
	StyleCompact  = "compact"
)

// Input carries everything a composer needs. Keys may be empty or unknown.
type Input struct {
	SubjectDescription string
	// SceneDescription overrides the stock description of SceneType when set.
	SceneDescription string
	SceneType        string
	TimeOfDay        string
	ShotType         string
}

// Composer builds one instruction string. Implementations are deterministic
// and never fail.
type Composer interface {
	Compose(in Input) string
}

// New returns the composer registered for style, defaulting to Detailed.
func New(style string) Composer {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case StyleCompact:
		return Compact{}
	default:
		return Detailed{}
	}
}

type resolved struct {
	subject  string
	scene    string
	place    descriptor.PlaceProfile
	lighting descriptor.LightingProfile
	shot     descriptor.ShotProfile
}

func resolve(in Input) resolved {
	place := descriptor.Place(in.SceneType)
	scene := strings.TrimSpace(in.SceneDescription)
	if scene == "" {
		scene = place.SceneDescription
	}
	return resolved{
		subject:  strings.TrimSpace(in.SubjectDescription),
		scene:    scene,
		place:    place,
		lighting: descriptor.Lighting(in.TimeOfDay),
		shot:     descriptor.Shot(in.ShotType),
	}
}

// Notes returns the override clauses active for a scene and time of day.
func Notes(sceneType, timeOfDay string) []string {
	return notes(descriptor.Place(sceneType), descriptor.Lighting(timeOfDay))
}

// notes evaluates the ambient rules in order, first match wins, then the
// reflectivity rule on its own.
func notes(place descriptor.PlaceProfile, light descriptor.LightingProfile) []string {
	var out []string
	switch {
	case place.Indoor && light.GoldenHour:
		out = append(out, "low golden light enters through the windows, falling across the interior in warm directional beams; no direct sun on the subject outside the window light")
	case place.Indoor && light.Night:
		out = append(out, "artificial lighting only, no natural light contribution; interior lamps and fixtures are the only sources")
	case !place.Indoor && light.Night:
		out = append(out, "requires artificial point light sources such as street lamps, storefronts and building lighting to illuminate the subject")
	}
	if place.HighReflectivity && light.HighSun {
		out = append(out, "very bright, high-key exposure from reflected light; the subject may squint slightly")
	}
	return out
}
