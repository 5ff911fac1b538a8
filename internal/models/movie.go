package models

// Movie is the internal movie shape shared by suggestions, details and the watchlist
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   string  `json:"posterUrl"`
	BackdropURL string  `json:"backdropUrl"`
	ReleaseDate string  `json:"releaseDate"`
	Rating      float64 `json:"rating"`
}

// CastMember is a single billed actor in a movie's credits
type CastMember struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	ProfileURL *string `json:"profileUrl"`
}

// MovieDetails holds the expanded information shown for a single title
type MovieDetails struct {
	Cast           []CastMember `json:"cast"`
	Similar        []Movie      `json:"similar"`
	Director       string       `json:"director"`
	RuntimeMinutes int          `json:"runtimeMinutes"`
}

// NoDirector is reported when credits name no director
const NoDirector = "N/A"

// EmptyDetails returns the zero-value details used whenever any lookup fails
func EmptyDetails() MovieDetails {
	return MovieDetails{
		Cast:     []CastMember{},
		Similar:  []Movie{},
		Director: NoDirector,
	}
}
