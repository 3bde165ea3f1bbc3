package entity

// EnrichedMovie is a catalog movie annotated with the caller's
// preference context. Annotations default to "not a favorite", "not in
// watchlist", and "no rating" when the preference data is unavailable.
type EnrichedMovie struct {
	Movie

	IsFavorite    bool `json:"is_favorite"`
	IsInWatchlist bool `json:"is_in_watchlist"`
	UserRating    *int `json:"user_rating,omitempty"`
}

// UserMovieData is the caller's preference context for one movie.
type UserMovieData struct {
	IsFavorite           bool   `json:"is_favorite"`
	IsInWatchlist        bool   `json:"is_in_watchlist"`
	UserRating           *int   `json:"user_rating,omitempty"`
	AddedToFavoritesDate string `json:"added_to_favorites_date,omitempty"`
	AddedToWatchlistDate string `json:"added_to_watchlist_date,omitempty"`
}

// EnrichedMovieDetails combines catalog movie details with the caller's
// preference context and merged sub-resources.
type EnrichedMovieDetails struct {
	MovieDetails

	UserData      UserMovieData `json:"user_data"`
	Cast          []CastMember  `json:"cast"`
	Crew          []CrewMember  `json:"crew"`
	ReviewsCount  int64         `json:"reviews_count"`
	SimilarMovies []Movie       `json:"similar_movies"`
}

// PersonalizedFeed is the paginated feed of enriched popular movies.
type PersonalizedFeed struct {
	Movies         []EnrichedMovie `json:"movies"`
	CurrentPage    int             `json:"current_page"`
	TotalPages     int             `json:"total_pages"`
	TotalResults   int64           `json:"total_results"`
	FavoritesCount int             `json:"favorites_count"`
	WatchlistCount int             `json:"watchlist_count"`
}

// SearchFeed is the paginated enriched search result.
type SearchFeed struct {
	Results      []EnrichedMovie `json:"results"`
	Query        string          `json:"query"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int64           `json:"total_results"`
}

// DashboardStats are aggregate statistics derived from the preference
// contexts. AvgRating is nil when no favorite carries a rating; it is
// never zero-filled.
type DashboardStats struct {
	TotalFavorites int      `json:"total_favorites"`
	TotalWatchlist int      `json:"total_watchlist"`
	AvgRating      *float64 `json:"avg_rating,omitempty"`
}

// DashboardFeed is the complete dashboard view: several enriched movie
// lists plus aggregate statistics.
type DashboardFeed struct {
	PopularMovies  []EnrichedMovie `json:"popular_movies"`
	TrendingMovies []EnrichedMovie `json:"trending_movies"`
	Stats          DashboardStats  `json:"stats"`
}
