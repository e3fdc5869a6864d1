package descriptor

// ShotProfile is a camera framing expressed as a prompt phrase that refers to
// the subject through SubjectToken.
type ShotProfile struct {
	Key    string
	Label  string
	Phrase string
}

var shotTable = []ShotProfile{
	{
		Key:    "fullbody",
		Label:  "Full body",
		Phrase: "full-body travel photo of [1], complete figure visible from head to feet, person centered in composition",
	},
	{
		Key:    "half",
		Label:  "Half body",
		Phrase: "half-body portrait of [1], captured from waist up, upper body and face clearly visible",
	},
	{
		Key:    "closeup",
		Label:  "Close-up",
		Phrase: "close-up portrait of [1], face and shoulders filling most of the frame, detailed facial features",
	},
	{
		Key:    "landscape",
		Label:  "Landscape",
		Phrase: "wide landscape scenic shot prominently featuring [1] as the main subject in the environment",
	},
}
