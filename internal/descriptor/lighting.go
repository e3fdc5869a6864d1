package descriptor

// LightingProfile describes the light of one time of day as a photographer
// would brief it.
type LightingProfile struct {
	Key              string
	Label            string
	Phrase           string
	ColorTemperature string
	SensorGain       string
	ShadowCharacter  string
	Sky              string
	LightDirection   string
	Contrast         string
	ExposureNote     string
	SpecialNotes     string
	// Night marks profiles without a natural key light.
	Night bool
	// GoldenHour marks low-sun profiles whose light reaches indoors through windows.
	GoldenHour bool
	// HighSun marks profiles with a near-vertical sun.
	HighSun bool
}

var lightingTable = []LightingProfile{
	{
		Key:              "morning",
		Label:            "Morning",
		Phrase:           "in soft morning light with clear sky, gentle warm tones, fresh atmosphere",
		ColorTemperature: "5000-5500K, neutral with a faint warm lift",
		SensorGain:       "ISO 100-200",
		ShadowCharacter:  "soft, medium-length shadows with gentle edges",
		Sky:              "clear pale blue sky with thin high haze",
		LightDirection:   "low-to-mid sun from the side, roughly 30 degrees elevation",
		Contrast:         "moderate, with open shadows",
		ExposureNote:     "expose for skin; highlights keep detail without recovery",
		SpecialNotes:     "light dew or freshly washed surfaces add subtle sparkle",
	},
	{
		Key:              "sunrise",
		Label:            "Sunrise",
		Phrase:           "during sunrise golden hour with warm low-angle sunlight, soft sky gradients from orange to blue, magical atmosphere",
		ColorTemperature: "3000-3500K, warm gold against cool blue shadows",
		SensorGain:       "ISO 200-400",
		ShadowCharacter:  "long, soft shadows raking across the ground",
		Sky:              "gradient from peach near the horizon to cool blue overhead",
		LightDirection:   "sun just above the horizon, side or back light on the subject",
		Contrast:         "low to moderate, warm rim light separating subject from background",
		ExposureNote:     "meter for the face so the bright horizon may clip slightly",
		SpecialNotes:     "thin mist or low haze catches the light near the ground",
		GoldenHour:       true,
	},
	{
		Key:              "noon",
		Label:            "Noon",
		Phrase:           "in bright midday sunlight, clear visibility, vibrant colors",
		ColorTemperature: "5500-6500K, neutral daylight",
		SensorGain:       "ISO 100, fast shutter",
		ShadowCharacter:  "short, hard shadows pooled directly under objects",
		Sky:              "deep saturated blue, few clouds",
		LightDirection:   "sun almost overhead, top light on hair and shoulders",
		Contrast:         "high, with dark eye sockets unless the face is turned up",
		ExposureNote:     "protect highlights on skin and bright surfaces",
		SpecialNotes:     "colors read vivid and saturated; heat shimmer on distant surfaces",
		HighSun:          true,
	},
	{
		Key:              "afternoon",
		Label:            "Afternoon",
		Phrase:           "in pleasant afternoon daylight, soft natural lighting, comfortable atmosphere",
		ColorTemperature: "5000-5500K, slightly warm daylight",
		SensorGain:       "ISO 100-200",
		ShadowCharacter:  "medium shadows with defined but not harsh edges",
		Sky:              "bright sky with scattered soft clouds",
		LightDirection:   "sun at 40-50 degrees from the side",
		Contrast:         "moderate and flattering",
		ExposureNote:     "balanced exposure between subject and background",
		SpecialNotes:     "relaxed everyday light, no dramatic color shift",
	},
	{
		Key:              "sunset",
		Label:            "Sunset",
		Phrase:           "during sunset golden hour with warm amber glow, colorful sky with orange and pink hues, romantic lighting",
		ColorTemperature: "2800-3300K, amber and rose",
		SensorGain:       "ISO 200-400",
		ShadowCharacter:  "long, warm-edged shadows stretching away from the sun",
		Sky:              "orange and pink clouds fading to violet",
		LightDirection:   "sun low behind or beside the subject, warm rim light",
		Contrast:         "moderate, glowing highlights with lifted shadows",
		ExposureNote:     "expose for the face; let the sky carry color without blowing out",
		SpecialNotes:     "warm light wraps skin; backgrounds fall slightly into silhouette",
		GoldenHour:       true,
	},
	{
		Key:              "night",
		Label:            "Night",
		Phrase:           "at night with realistic artificial lighting, visible ambient lights, evening atmosphere with depth",
		ColorTemperature: "mixed 2700K tungsten and 4000K LED sources",
		SensorGain:       "ISO 1600-3200 with visible fine grain",
		ShadowCharacter:  "pooled shadows between light sources, multiple soft edges",
		Sky:              "dark navy sky, no daylight on the horizon",
		LightDirection:   "practical lights from signs, windows and lamps near the subject",
		Contrast:         "high between lit areas and darkness",
		ExposureNote:     "expose for the brightest practical light on the face; blacks stay deep",
		SpecialNotes:     "bokeh from background lights; slight noise in shadows",
		Night:            true,
	},
}
