package services

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/liamwears/vibeflix/internal/models"
)

const placeholderImageBase = "https://placehold.co"

// Placeholder artwork used when the catalog has no image for a title
const (
	PlaceholderPoster   = placeholderImageBase + "/400x600/211f33/9881ff?text=VibeFlix"
	PlaceholderBackdrop = placeholderImageBase + "/1920x1080/211f33/9881ff?text=VibeFlix"
	NoOverview          = "No overview available."
	UnknownReleaseDate  = "Unknown"
)

func placeholderPoster(text string) string {
	return fmt.Sprintf("%s/400x600/211f33/9881ff?text=%s", placeholderImageBase, strings.ReplaceAll(text, " ", "+"))
}

func placeholderBackdrop(text string) string {
	return fmt.Sprintf("%s/1920x1080/211f33/9881ff?text=%s", placeholderImageBase, strings.ReplaceAll(text, " ", "+"))
}

func bundledMovie(id int, title, overview, releaseDate string, rating float64) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       title,
		Overview:    overview,
		PosterURL:   placeholderPoster(title),
		BackdropURL: placeholderBackdrop(title),
		ReleaseDate: releaseDate,
		Rating:      rating,
	}
}

var sampleMovies = []models.Movie{
	bundledMovie(1, "The Grand Adventure",
		"A thrilling journey through uncharted territories where a group of explorers discover ancient secrets that could change the world forever. Filled with action, mystery, and breathtaking landscapes.",
		"2024-03-15", 8.5),
	bundledMovie(2, "Midnight Mystery",
		"A gripping detective story set in a foggy coastal town where nothing is as it seems. When a local businessman disappears, a rookie detective must uncover the truth before it's too late.",
		"2024-02-28", 7.8),
	bundledMovie(3, "Cosmic Dreams",
		"An animated masterpiece that takes viewers on a journey through the cosmos. When a young astronomer discovers a mysterious signal from space, she embarks on an adventure that transcends reality.",
		"2024-01-10", 9.2),
	bundledMovie(4, "Laugh Out Loud",
		"A hilarious comedy about a stand-up comedian who accidentally becomes a viral sensation overnight. As fame takes over, he must decide what's truly important in life.",
		"2024-04-05", 7.5),
	bundledMovie(5, "Heart's Echo",
		"A touching romantic drama about two people from different worlds who find love in the most unexpected place. Their journey teaches them that love knows no boundaries.",
		"2024-03-22", 8.1),
	bundledMovie(6, "Shadow Realm",
		"A horror film that explores the dark corners of human psychology. When a group of friends investigate an abandoned asylum, they discover that some doors should never be opened.",
		"2024-02-14", 7.9),
}

// legacyMovies were referenced by id in older watchlists
var legacyMovies = []models.Movie{
	bundledMovie(101, "Action Hero", "A thrilling action movie with amazing stunts and explosions.", "2024-05-01", 8.0),
	bundledMovie(102, "Comedy Central", "A hilarious comedy that will make you laugh until you cry.", "2024-04-15", 7.8),
	bundledMovie(103, "Drama Queen", "An emotional drama that explores the depths of human relationships.", "2024-03-20", 8.2),
	bundledMovie(104, "Sci-Fi Adventure", "A futuristic sci-fi movie that takes you to another dimension.", "2024-02-10", 8.7),
	bundledMovie(105, "Horror Night", "A spine-chilling horror movie that will keep you awake.", "2024-01-25", 7.5),
	bundledMovie(201, "Romantic Comedy", "A sweet romantic comedy about finding love in unexpected places.", "2024-06-01", 7.9),
	bundledMovie(202, "Thriller Edge", "A gripping thriller that will keep you on the edge of your seat.", "2024-05-15", 8.3),
	bundledMovie(203, "Fantasy World", "An epic fantasy adventure in a magical world.", "2024-04-20", 8.1),
}

// SampleMovies returns a copy of the bundled fallback set
func SampleMovies() []models.Movie {
	return slices.Clone(sampleMovies)
}

// KnownMovies returns the table legacy watchlist ids are resolved against
func KnownMovies() map[int]models.Movie {
	known := make(map[int]models.Movie, len(sampleMovies)+len(legacyMovies))
	for _, m := range sampleMovies {
		known[m.ID] = m
	}
	for _, m := range legacyMovies {
		known[m.ID] = m
	}
	return known
}

// PlaceholderMovie stands in for a watchlist id no table can resolve
func PlaceholderMovie(id int) models.Movie {
	return models.Movie{
		ID:          id,
		Title:       fmt.Sprintf("Movie ID %d", id),
		Overview:    "This movie was added by ID. Full details will be available when viewing from suggestions.",
		PosterURL:   placeholderPoster(fmt.Sprintf("Movie %d", id)),
		BackdropURL: placeholderBackdrop(fmt.Sprintf("Movie %d", id)),
		ReleaseDate: UnknownReleaseDate,
		Rating:      0,
	}
}

func cloneKnown(known map[int]models.Movie) map[int]models.Movie {
	if known == nil {
		return KnownMovies()
	}
	return maps.Clone(known)
}
