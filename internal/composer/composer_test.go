package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelshot/internal/descriptor"
)

const subject = "woman in her thirties with curly auburn hair and freckles"

func strategies() map[string]Composer {
	return map[string]Composer{
		StyleDetailed: Detailed{},
		StyleCompact:  Compact{},
	}
}

func TestComposeContainsEachPartOnce(t *testing.T) {
	for name, c := range strategies() {
		for _, timeKey := range descriptor.TimeKeys() {
			for _, sceneKey := range descriptor.SceneKeys() {
				for _, shotKey := range descriptor.ShotKeys() {
					out := c.Compose(Input{
						SubjectDescription: subject,
						SceneType:          sceneKey,
						TimeOfDay:          timeKey,
						ShotType:           shotKey,
					})
					require.NotEmpty(t, out)
					scene := descriptor.Place(sceneKey).SceneDescription
					shot := descriptor.Shot(shotKey).Phrase
					assert.Equal(t, 1, strings.Count(out, subject), "%s %s/%s/%s subject", name, timeKey, sceneKey, shotKey)
					assert.Equal(t, 1, strings.Count(out, scene), "%s %s/%s/%s scene", name, timeKey, sceneKey, shotKey)
					assert.Equal(t, 1, strings.Count(out, shot), "%s %s/%s/%s shot", name, timeKey, sceneKey, shotKey)
				}
			}
		}
	}
}

func TestComposeUnknownKeysMatchDefaults(t *testing.T) {
	for name, c := range strategies() {
		want := c.Compose(Input{SubjectDescription: subject, SceneType: "cafe", TimeOfDay: "sunset", ShotType: "fullbody"})
		for _, in := range []Input{
			{SubjectDescription: subject},
			{SubjectDescription: subject, SceneType: "moonbase", TimeOfDay: "teatime", ShotType: "aerial"},
			{SubjectDescription: subject, SceneType: "cafe", TimeOfDay: "dusk-ish"},
			{SubjectDescription: subject, SceneType: "??", TimeOfDay: "sunset"},
		} {
			assert.Equal(t, want, c.Compose(in), "%s %+v", name, in)
		}
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	in := Input{SubjectDescription: subject, SceneType: "beach", TimeOfDay: "noon", ShotType: "half"}
	for _, c := range strategies() {
		assert.Equal(t, c.Compose(in), c.Compose(in))
	}
}

func TestComposeSectionOrder(t *testing.T) {
	out := Detailed{}.Compose(Input{SubjectDescription: subject, SceneType: "museum", TimeOfDay: "night", ShotType: "closeup"})
	order := []string{"SUBJECT IDENTITY:", "SCENE:", "CAMERA COMPOSITION:", "LIGHTING:", "LIGHTING OVERRIDES:", "IDENTITY MATCHING:", "AUTHENTICITY:", "FORBIDDEN:"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(out, heading)
		require.Greater(t, idx, last, "section %s out of order", heading)
		last = idx
	}
}

func TestComposeSceneDescriptionOverride(t *testing.T) {
	out := Detailed{}.Compose(Input{SubjectDescription: subject, SceneDescription: "Trevi Fountain, Rome", SceneType: "oldtown"})
	assert.Contains(t, out, "Location: Trevi Fountain, Rome.")
	assert.NotContains(t, out, descriptor.Place("oldtown").SceneDescription)
}

func TestNotes(t *testing.T) {
	cases := []struct {
		scene, time string
		want        []string
	}{
		{"cafe", "sunset", []string{"enters through the windows"}},
		{"hotel", "sunrise", []string{"enters through the windows"}},
		{"museum", "night", []string{"artificial lighting only, no natural light contribution"}},
		{"city", "night", []string{"requires artificial point light sources"}},
		{"beach", "noon", []string{"very bright, high-key exposure"}},
		{"snow", "noon", []string{"subject may squint"}},
		{"beach", "night", []string{"requires artificial point light sources"}},
		{"city", "noon", nil},
		{"cafe", "afternoon", nil},
		{"beach", "sunset", nil},
	}
	for _, tc := range cases {
		got := Notes(tc.scene, tc.time)
		require.Len(t, got, len(tc.want), "%s/%s: %v", tc.scene, tc.time, got)
		for i, fragment := range tc.want {
			assert.Contains(t, got[i], fragment, "%s/%s", tc.scene, tc.time)
		}
	}
}

func TestNotesAppearInPrompt(t *testing.T) {
	for _, c := range strategies() {
		out := c.Compose(Input{SubjectDescription: subject, SceneType: "yacht", TimeOfDay: "noon"})
		assert.Contains(t, out, "high-key exposure")
		out = c.Compose(Input{SubjectDescription: subject, SceneType: "forest", TimeOfDay: "afternoon"})
		assert.NotContains(t, out, "high-key exposure")
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	assert.IsType(t, Compact{}, New("Compact"))
	assert.IsType(t, Detailed{}, New(""))
	assert.IsType(t, Detailed{}, New("unknown"))
}
