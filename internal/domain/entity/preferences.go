package entity

// FavoriteItem is one entry in a user's favorites, keyed by movie ID.
// Rating is optional: a favorite without a rating carries nil.
type FavoriteItem struct {
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title,omitempty"`
	PosterPath string `json:"poster_path,omitempty"`
	Rating     *int   `json:"rating,omitempty"`
	AddedDate  string `json:"added_date,omitempty"`
}

// WatchlistItem is one entry in a user's watchlist, keyed by movie ID.
type WatchlistItem struct {
	MovieID     int64  `json:"movie_id"`
	Title       string `json:"title,omitempty"`
	PosterPath  string `json:"poster_path,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	AddedDate   string `json:"added_date,omitempty"`
}
