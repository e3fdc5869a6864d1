package descriptor

// PlaceProfile describes the environment of one scene type.
type PlaceProfile struct {
	Key                string
	Label              string
	Indoor             bool
	HighReflectivity   bool
	SceneDescription   string
	ReflectiveSurface  string
	ExposureAdjustment string
	ColorCast          string
	SpecialLighting    string
	Atmosphere         string
	GroundSurface      string
	DepthElements      string
}

var placeTable = []PlaceProfile{
	{
		Key:                "cafe",
		Label:              "Cafe",
		Indoor:             true,
		SceneDescription:   "a cozy neighborhood cafe with wooden tables, espresso machine and large street-facing windows",
		ReflectiveSurface:  "glossy tabletops and glass cups catch small highlights",
		ExposureAdjustment: "open up half a stop for the dimmer interior",
		ColorCast:          "warm brown and cream tones from wood and lamps",
		SpecialLighting:    "pendant lamps over the counter",
		Atmosphere:         "quiet chatter, steam rising from cups",
		GroundSurface:      "worn wooden floorboards",
		DepthElements:      "counter and shelves of cups softly blurred behind the subject",
	},
	{
		Key:                "beach",
		Label:              "Beach",
		HighReflectivity:   true,
		SceneDescription:   "a wide sandy beach with turquoise water and gentle surf",
		ReflectiveSurface:  "wet sand and water throw strong fill light upward",
		ExposureAdjustment: "stop down a third to hold highlights on sand and surf",
		ColorCast:          "cyan from the water, warm from the sand",
		SpecialLighting:    "sparkles on the water surface",
		Atmosphere:         "salt haze softening the horizon, light sea breeze",
		GroundSurface:      "fine pale sand with footprints",
		DepthElements:      "shoreline curving into the distance, small waves breaking",
	},
	{
		Key:                "pool",
		Label:              "Pool",
		HighReflectivity:   true,
		SceneDescription:   "a resort infinity pool surrounded by palms and sun loungers",
		ReflectiveSurface:  "rippling water casts caustic patterns and bright bounce light",
		ExposureAdjustment: "stop down a third for water glare",
		ColorCast:          "aqua from the pool tiles",
		SpecialLighting:    "reflections dancing across skin",
		Atmosphere:         "calm holiday mood, shimmering heat",
		GroundSurface:      "pale stone pool deck",
		DepthElements:      "pool edge meeting the horizon, palms framing the sides",
	},
	{
		Key:                "snow",
		Label:              "Snow",
		HighReflectivity:   true,
		SceneDescription:   "a snowy alpine village slope with pine trees and wooden chalets",
		ReflectiveSurface:  "snow reflects almost all light, filling every shadow",
		ExposureAdjustment: "add a stop so snow reads white, not grey",
		ColorCast:          "cool blue in shadows",
		SpecialLighting:    "glitter of ice crystals",
		Atmosphere:         "crisp cold air, visible breath",
		GroundSurface:      "fresh packed snow",
		DepthElements:      "snow-covered peaks and chalets receding into the distance",
	},
	{
		Key:                "yacht",
		Label:              "Yacht",
		HighReflectivity:   true,
		SceneDescription:   "the teak deck of a sailing yacht on open blue sea",
		ReflectiveSurface:  "polished chrome rails and sea surface bounce bright light",
		ExposureAdjustment: "stop down a third for sea glare",
		ColorCast:          "deep blue from the sea, warm from the teak",
		SpecialLighting:    "specular highlights on chrome fittings",
		Atmosphere:         "wind in the hair, spray in the air",
		GroundSurface:      "oiled teak planks",
		DepthElements:      "rigging and sails overhead, coastline on the horizon",
	},
	{
		Key:                "city",
		Label:              "City",
		SceneDescription:   "a busy modern city street with glass towers and crosswalks",
		ReflectiveSurface:  "glass facades mirror the sky and street",
		ExposureAdjustment: "none",
		ColorCast:          "neutral with cool glass reflections",
		SpecialLighting:    "shop windows and traffic lights",
		Atmosphere:         "urban energy, pedestrians softly blurred",
		GroundSurface:      "concrete pavement with painted crossings",
		DepthElements:      "street vanishing between tall buildings",
	},
	{
		Key:                "oldtown",
		Label:              "Old Town",
		SceneDescription:   "a cobblestone old town lane lined with historic pastel facades",
		ReflectiveSurface:  "polished cobblestones give a soft sheen",
		ExposureAdjustment: "none",
		ColorCast:          "warm pastel tones from painted plaster",
		SpecialLighting:    "wrought-iron lanterns on the walls",
		Atmosphere:         "timeless European charm, flower boxes on balconies",
		GroundSurface:      "uneven cobblestones",
		DepthElements:      "narrow lane curving away, church tower in the background",
	},
	{
		Key:                "museum",
		Label:              "Museum",
		Indoor:             true,
		SceneDescription:   "a grand museum gallery with high ceilings, marble columns and framed paintings",
		ReflectiveSurface:  "polished marble floor shows soft reflections",
		ExposureAdjustment: "open up a stop for gallery light levels",
		ColorCast:          "neutral to slightly warm from gallery spots",
		SpecialLighting:    "track spotlights aimed at the artworks",
		Atmosphere:         "hushed, reverent calm",
		GroundSurface:      "polished marble tiles",
		DepthElements:      "long gallery hall with artworks receding",
	},
	{
		Key:                "mountain",
		Label:              "Mountain",
		SceneDescription:   "a rugged mountain trail overlook above a green valley",
		ReflectiveSurface:  "none significant",
		ExposureAdjustment: "protect the bright sky behind distant ridges",
		ColorCast:          "clean neutral with green from vegetation",
		SpecialLighting:    "clouds casting moving shadows across slopes",
		Atmosphere:         "thin clear air, aerial haze layering far ridges",
		GroundSurface:      "rocky gravel path",
		DepthElements:      "layered ridgelines fading into blue haze",
	},
	{
		Key:                "desert",
		Label:              "Desert",
		SceneDescription:   "rolling golden desert dunes under a vast sky",
		ReflectiveSurface:  "sand gives warm bounce light",
		ExposureAdjustment: "stop down slightly for bright sand",
		ColorCast:          "strong warm orange",
		SpecialLighting:    "wind-carved ripples catching light",
		Atmosphere:         "dry heat, fine sand drifting off dune crests",
		GroundSurface:      "rippled sand",
		DepthElements:      "dune ridges stacking into the distance",
	},
	{
		Key:                "forest",
		Label:              "Forest",
		SceneDescription:   "a lush forest path beneath tall moss-covered trees",
		ReflectiveSurface:  "none significant",
		ExposureAdjustment: "open up a third under the canopy",
		ColorCast:          "green cast from foliage",
		SpecialLighting:    "light shafts breaking through the canopy",
		Atmosphere:         "damp earthy air, faint mist",
		GroundSurface:      "soft dirt path with fallen leaves",
		DepthElements:      "tree trunks receding into shaded depth",
	},
	{
		Key:                "rooftop",
		Label:              "Rooftop",
		SceneDescription:   "a stylish rooftop terrace overlooking the city skyline",
		ReflectiveSurface:  "glass balustrade reflects the sky",
		ExposureAdjustment: "balance subject against the bright skyline",
		ColorCast:          "neutral with warm accents from string lights",
		SpecialLighting:    "string lights above the terrace",
		Atmosphere:         "relaxed lounge mood, light breeze",
		GroundSurface:      "wooden decking",
		DepthElements:      "skyline spreading behind the railing",
	},
	{
		Key:                "market",
		Label:              "Market",
		Indoor:             true,
		SceneDescription:   "a bustling covered market hall with colorful produce stalls",
		ReflectiveSurface:  "fresh produce and tiled counters glisten",
		ExposureAdjustment: "open up half a stop under the roof",
		ColorCast:          "mixed warm tones from stall lamps",
		SpecialLighting:    "bare bulbs hanging over stalls",
		Atmosphere:         "lively crowd, aromas and chatter",
		GroundSurface:      "worn stone tiles",
		DepthElements:      "rows of stalls and hanging signs receding",
	},
	{
		Key:                "temple",
		Label:              "Temple",
		SceneDescription:   "an ornate ancient temple courtyard with carved stone and incense",
		ReflectiveSurface:  "gilded details catch highlights",
		ExposureAdjustment: "none",
		ColorCast:          "warm stone and gold",
		SpecialLighting:    "glow of gilded ornaments",
		Atmosphere:         "spiritual calm, drifting incense smoke",
		GroundSurface:      "weathered stone slabs",
		DepthElements:      "temple gates and stupas layered behind",
	},
	{
		Key:                "hotel",
		Label:              "Hotel",
		Indoor:             true,
		SceneDescription:   "an elegant boutique hotel lobby with velvet armchairs and brass details",
		ReflectiveSurface:  "brass fixtures and lacquered surfaces shine",
		ExposureAdjustment: "open up half a stop indoors",
		ColorCast:          "warm gold from brass and lamps",
		SpecialLighting:    "chandelier and table lamps",
		Atmosphere:         "refined, quiet luxury",
		GroundSurface:      "patterned carpet over marble",
		DepthElements:      "reception desk and staircase softly blurred",
	},
}
