// Package vocabulary maps the names users pick in the UI to catalog ids.
package vocabulary

import (
	"fmt"
	"math/rand"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/liamwears/vibeflix/internal/models"
)

// Vocabulary holds the mood, genre and streaming service lookup tables
type Vocabulary struct {
	MoodGenres map[models.Mood][]string `yaml:"moods" json:"moods"`
	Genres     map[string]string        `yaml:"genres" json:"genres"`
	Services   map[string]string        `yaml:"services" json:"services"`
}

// Default returns the built-in tables
func Default() *Vocabulary {
	return &Vocabulary{
		MoodGenres: map[models.Mood][]string{
			models.MoodHappy:     {"35", "10751"}, // Comedy, Family
			models.MoodDramatic:  {"18"},
			models.MoodThrilling: {"28", "53"},  // Action, Thriller
			models.MoodWhimsical: {"14", "16"},  // Fantasy, Animation
			models.MoodSpooky:    {"27", "9648"}, // Horror, Mystery
			models.MoodSad:       {"18", "10749"}, // Drama, Romance
		},
		Genres: map[string]string{
			"Action":      "28",
			"Adventure":   "12",
			"Animation":   "16",
			"Comedy":      "35",
			"Crime":       "80",
			"Documentary": "99",
			"Drama":       "18",
			"Family":      "10751",
			"Fantasy":     "14",
			"History":     "36",
			"Horror":      "27",
			"Music":       "10402",
			"Mystery":     "9648",
			"Romance":     "10749",
			"Sci-Fi":      "878",
			"Thriller":    "53",
			"War":         "10752",
			"Western":     "37",
		},
		Services: map[string]string{
			"Netflix":     "8",
			"Prime Video": "9",
			"Disney+":     "337",
			"Hulu":        "15",
			"Max":         "1899",
			"Apple TV+":   "350",
		},
	}
}

// LoadFile reads a YAML file and merges its entries over the defaults.
// An empty path returns the defaults.
func LoadFile(path string) (*Vocabulary, error) {
	v := Default()
	if path == "" {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	v.merge(&override)
	return v, nil
}

func (v *Vocabulary) merge(o *Vocabulary) {
	for mood, ids := range o.MoodGenres {
		v.MoodGenres[mood] = slices.Clone(ids)
	}
	for name, id := range o.Genres {
		v.Genres[name] = id
	}
	for name, id := range o.Services {
		v.Services[name] = id
	}
}

// MoodGenreIDs returns the genre ids biased by a mood; unknown moods yield nil
func (v *Vocabulary) MoodGenreIDs(mood models.Mood) []string {
	return v.MoodGenres[mood]
}

// GenreID looks up a genre display name
func (v *Vocabulary) GenreID(name string) (string, bool) {
	id, ok := v.Genres[name]
	return id, ok && id != ""
}

// ProviderID looks up a streaming service display name
func (v *Vocabulary) ProviderID(name string) (string, bool) {
	id, ok := v.Services[name]
	return id, ok && id != ""
}

// GenreNames returns the genre display names sorted alphabetically
func (v *Vocabulary) GenreNames() []string {
	return sortedKeys(v.Genres)
}

// ServiceNames returns the service display names sorted alphabetically
func (v *Vocabulary) ServiceNames() []string {
	return sortedKeys(v.Services)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// shuffleMoods are the candidates for a random pick; Sad is never chosen
var shuffleMoods = []models.Mood{
	models.MoodHappy,
	models.MoodDramatic,
	models.MoodThrilling,
	models.MoodWhimsical,
	models.MoodSpooky,
}

// EffectiveMood returns the selected mood, or a random upbeat one when none is selected
func EffectiveMood(selected models.Mood, rng *rand.Rand) models.Mood {
	if selected != "" {
		return selected
	}
	if rng == nil {
		return shuffleMoods[rand.Intn(len(shuffleMoods))]
	}
	return shuffleMoods[rng.Intn(len(shuffleMoods))]
}
