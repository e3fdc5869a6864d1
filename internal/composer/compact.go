package composer

import (
	"fmt"
	"strings"
)

// Compact is the short single-brief template used by the first generation of
// the product. It carries the same override clauses as Detailed.
type Compact struct{}

func (Compact) Compose(in Input) string {
	r := resolve(in)

	lighting := r.lighting.Phrase
	if ns := notes(r.place, r.lighting); len(ns) > 0 {
		lighting += "; " + strings.Join(ns, "; ")
	}

	return fmt.Sprintf(`Create a highly realistic professional travel photograph of %s [1].

Camera composition: %s, natural relaxed pose, authentic candid travel moment.

Location: %s, clearly recognizable as a real-world destination, with visible environmental details and context.

Lighting and time: %s.

Photography style: high-quality travel photography, realistic natural colors and accurate skin tones, sharp focus on the person, natural background with appropriate depth of field, photorealistic details, no studio lighting, no over-smoothing, no image distortion or artifacts, single person only - no duplicates or extra people resembling [1], keep the face, hair, skin tone and build of [1] unchanged.

The person [1] should be the clear main subject, naturally integrated into the scene, looking comfortable and genuine as a traveler.`, r.subject, r.shot.Phrase, r.scene, lighting)
}
