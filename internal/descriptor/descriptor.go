// Package descriptor holds the immutable lookup tables that feed the prompt
// composer: time of day to lighting profile, scene type to place profile and
// shot type to framing phrase. Lookups never fail; unknown keys resolve to the
// documented defaults.
package descriptor

import (
	"strings"
)

const (
	DefaultTime  = "sunset"
	DefaultScene = "cafe"
	DefaultShot  = "fullbody"
)

// SubjectToken is the placeholder the generation models bind to the
// reference subject.
const SubjectToken = "[1]"

var (
	lightingIndex = indexLighting(lightingTable)
	placeIndex    = indexPlaces(placeTable)
	shotIndex     = indexShots(shotTable)
)

// Lighting returns the lighting profile for a time-of-day key.
func Lighting(key string) LightingProfile {
	if p, ok := lightingIndex[NormalizeKey(key)]; ok {
		return p
	}
	return lightingIndex[DefaultTime]
}

// Place returns the place profile for a scene-type key.
func Place(key string) PlaceProfile {
	if p, ok := placeIndex[NormalizeKey(key)]; ok {
		return p
	}
	return placeIndex[DefaultScene]
}

// Shot returns the framing profile for a shot-type key.
func Shot(key string) ShotProfile {
	if p, ok := shotIndex[NormalizeKey(key)]; ok {
		return p
	}
	return shotIndex[DefaultShot]
}

// ResolveTime maps key onto a known time-of-day key.
func ResolveTime(key string) string { return Lighting(key).Key }

// ResolveScene maps key onto a known scene-type key.
func ResolveScene(key string) string { return Place(key).Key }

// ResolveShot maps key onto a known shot-type key.
func ResolveShot(key string) string { return Shot(key).Key }

// TimeKeys lists the supported time-of-day keys in catalog order.
func TimeKeys() []string {
	out := make([]string, 0, len(lightingTable))
	for _, p := range lightingTable {
		out = append(out, p.Key)
	}
	return out
}

// SceneKeys lists the supported scene-type keys in catalog order.
func SceneKeys() []string {
	out := make([]string, 0, len(placeTable))
	for _, p := range placeTable {
		out = append(out, p.Key)
	}
	return out
}

// ShotKeys lists the supported shot-type keys in catalog order.
func ShotKeys() []string {
	out := make([]string, 0, len(shotTable))
	for _, p := range shotTable {
		out = append(out, p.Key)
	}
	return out
}

// NormalizeKey trims and lower-cases key and folds separators so that
// "Old Town", "old-town" and "oldtown" all match.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return ""
	}
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
}

func indexLighting(table []LightingProfile) map[string]LightingProfile {
	out := make(map[string]LightingProfile, len(table))
	for _, p := range table {
		out[p.Key] = p
	}
	return out
}

func indexPlaces(table []PlaceProfile) map[string]PlaceProfile {
	out := make(map[string]PlaceProfile, len(table))
	for _, p := range table {
		out[p.Key] = p
	}
	return out
}

func indexShots(table []ShotProfile) map[string]ShotProfile {
	out := make(map[string]ShotProfile, len(table))
	for _, p := range table {
		out[p.Key] = p
	}
	return out
}
