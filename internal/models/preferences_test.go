package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleGenre(t *testing.T) {
	prefs := UserPreferences{}

	prefs = prefs.ToggleGenre("Comedy")
	prefs = prefs.ToggleGenre("Drama")
	assert.Equal(t, []string{"Comedy", "Drama"}, prefs.Genres)

	prefs = prefs.ToggleGenre("Comedy")
	assert.Equal(t, []string{"Drama"}, prefs.Genres)
	assert.Equal(t, []string{}, prefs.Services)
}

func TestToggleServiceIgnoresBlank(t *testing.T) {
	prefs := UserPreferences{Services: []string{"Netflix"}}.ToggleService("  ")
	assert.Equal(t, []string{"Netflix"}, prefs.Services)
}

func TestNormalizeDedupes(t *testing.T) {
	prefs := UserPreferences{
		Genres:   []string{"Drama", "Drama", " ", "Horror"},
		Services: nil,
	}.Normalize()

	assert.Equal(t, []string{"Drama", "Horror"}, prefs.Genres)
	assert.NotNil(t, prefs.Services)
}

func TestMoodIsValid(t *testing.T) {
	assert.True(t, MoodSad.IsValid())
	assert.False(t, Mood("Angry").IsValid())
	assert.False(t, Mood("").IsValid())
}

func TestIsValidRating(t *testing.T) {
	for _, r := range []int{2, 4, 6, 8, 10} {
		assert.True(t, IsValidRating(r), "rating %d", r)
	}
	for _, r := range []int{0, 1, 5, 9, 11, -2} {
		assert.False(t, IsValidRating(r), "rating %d", r)
	}
}

func TestEmptyDetails(t *testing.T) {
	d := EmptyDetails()
	assert.Empty(t, d.Cast)
	assert.NotNil(t, d.Cast)
	assert.Empty(t, d.Similar)
	assert.Equal(t, "N/A", d.Director)
	assert.Zero(t, d.RuntimeMinutes)
}
