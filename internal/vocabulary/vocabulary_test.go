package vocabulary

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/vibeflix/internal/models"
)

func TestDefaultCoversEveryMood(t *testing.T) {
	v := Default()
	for _, mood := range models.Moods {
		assert.NotEmpty(t, v.MoodGenreIDs(mood), "mood %s", mood)
	}
	assert.Nil(t, v.MoodGenreIDs("Angry"))
}

func TestLookups(t *testing.T) {
	v := Default()

	id, ok := v.GenreID("Sci-Fi")
	assert.True(t, ok)
	assert.Equal(t, "878", id)

	_, ok = v.GenreID("Telenovela")
	assert.False(t, ok)

	id, ok = v.ProviderID("Max")
	assert.True(t, ok)
	assert.Equal(t, "1899", id)

	assert.Len(t, v.ServiceNames(), 6)
	assert.Equal(t, "Action", v.GenreNames()[0])
}

func TestLoadFileMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := `
moods:
  Happy: ["35"]
genres:
  Telenovela: "10766"
services:
  Globoplay: "307"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"35"}, v.MoodGenreIDs(models.MoodHappy))
	assert.Equal(t, []string{"18"}, v.MoodGenreIDs(models.MoodDramatic))

	id, ok := v.GenreID("Telenovela")
	assert.True(t, ok)
	assert.Equal(t, "10766", id)

	id, ok = v.ProviderID("Globoplay")
	assert.True(t, ok)
	assert.Equal(t, "307", id)

	_, ok = v.ProviderID("Netflix")
	assert.True(t, ok)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("moods: [unterminated"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileEmptyPath(t *testing.T) {
	v, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), v)
}

func TestEffectiveMood(t *testing.T) {
	assert.Equal(t, models.MoodSad, EffectiveMood(models.MoodSad, nil))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		mood := EffectiveMood("", rng)
		assert.True(t, mood.IsValid())
		assert.NotEqual(t, models.MoodSad, mood)
	}
}
