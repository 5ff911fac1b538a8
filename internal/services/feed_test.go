package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liamwears/vibeflix/internal/models"
)

func TestFeedCommitsOnlyLatestTicket(t *testing.T) {
	feed := &Feed{}

	first := feed.Issue()
	second := feed.Issue()

	assert.True(t, feed.Commit(second, models.MoodSpooky, "catalog", []models.Movie{{ID: 2}}))
	// the older request resolves late
	assert.False(t, feed.Commit(first, models.MoodHappy, "catalog", []models.Movie{{ID: 1}}))

	mood, source, movies := feed.Current()
	assert.Equal(t, models.MoodSpooky, mood)
	assert.Equal(t, "catalog", source)
	assert.Equal(t, []models.Movie{{ID: 2}}, movies)
}

func TestFeedCurrentIsEmptyBeforeCommit(t *testing.T) {
	_, _, movies := (&Feed{}).Current()
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestFeedCurrentReturnsCopy(t *testing.T) {
	feed := &Feed{}
	feed.Commit(feed.Issue(), models.MoodSad, "fallback", SampleMovies())

	_, _, movies := feed.Current()
	movies[0].Title = "changed"

	_, _, again := feed.Current()
	assert.Equal(t, "The Grand Adventure", again[0].Title)
}

func TestFeedsPerClient(t *testing.T) {
	feeds := NewFeeds()
	assert.Same(t, feeds.For("a"), feeds.For("a"))
	assert.NotSame(t, feeds.For("a"), feeds.For("b"))
}
