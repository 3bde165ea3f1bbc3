// Package entity defines the domain data structures exchanged with the
// catalog and preferences dependencies and the enriched views built from
// them.
package entity

// Genre is a movie genre as returned by the catalog dependency.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a production company attached to movie details.
type ProductionCompany struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path,omitempty"`
	OriginCountry string `json:"origin_country,omitempty"`
}

// CastMember is an actor credit on a movie.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is a crew credit on a movie.
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Movie is the basic movie shape returned by list endpoints of the
// catalog dependency. Field names mirror the upstream API so payloads
// pass through unmodified.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	GenreIDs         []int64 `json:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// MovieDetails is the extended movie shape returned by the catalog
// detail endpoint, including whatever sub-resources were requested.
type MovieDetails struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Tagline       string  `json:"tagline,omitempty"`
	Overview      string  `json:"overview,omitempty"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Runtime       int     `json:"runtime,omitempty"`
	PosterPath    string  `json:"poster_path,omitempty"`
	BackdropPath  string  `json:"backdrop_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	Budget        int64   `json:"budget,omitempty"`
	Revenue       int64   `json:"revenue,omitempty"`
	Adult         bool    `json:"adult"`
	Status        string  `json:"status,omitempty"`
	Homepage      string  `json:"homepage,omitempty"`
	IMDBID        string  `json:"imdb_id,omitempty"`

	Genres              []Genre             `json:"genres,omitempty"`
	ProductionCompanies []ProductionCompany `json:"production_companies,omitempty"`

	// Sub-resources present only when requested via the include set.
	Credits *Credits    `json:"credits,omitempty"`
	Reviews *ReviewPage `json:"reviews,omitempty"`
	Similar *MoviePage  `json:"similar,omitempty"`
}

// ReviewPage carries the review sub-resource of movie details. Only the
// counters are consumed; review bodies stay upstream.
type ReviewPage struct {
	Page         int   `json:"page"`
	TotalResults int64 `json:"total_results"`
}

// Credits holds the cast and crew sub-resource of movie details.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MoviePage is a paginated movie list as returned by the catalog
// dependency. Pagination fields pass through unmodified.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int64   `json:"total_results"`
}
