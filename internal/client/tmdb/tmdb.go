// Package tmdb provides typed operations over the TMDB catalog
// dependency. Each operation is a thin wrapper over the generic
// dependency client, fixing the path template and deriving its cache key
// from every parameter that affects the response.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"movie-dashboard/internal/cache"
	"movie-dashboard/internal/client"
	"movie-dashboard/internal/domain/entity"
)

// ErrInvalidWindow is returned when a trending window is neither "day"
// nor "week".
var ErrInvalidWindow = errors.New("trending window must be \"day\" or \"week\"")

// DefaultIncludes is the standard sub-resource set attached to detail
// fetches when the caller does not specify one.
var DefaultIncludes = []string{"credits", "reviews", "similar", "videos", "images"}

// Client is the catalog dependency client.
type Client struct {
	dep *client.Client
}

// New wraps a configured dependency client with typed catalog operations.
func New(dep *client.Client) *Client {
	return &Client{dep: dep}
}

// Popular returns the popular movies list for one page, optionally
// filtered to a region.
func (c *Client) Popular(ctx context.Context, page int, region string) (*entity.MoviePage, error) {
	return c.listPage(ctx, "/movie/popular", "popular", page, region)
}

// NowPlaying returns movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, page int, region string) (*entity.MoviePage, error) {
	return c.listPage(ctx, "/movie/now_playing", "now_playing", page, region)
}

// Upcoming returns upcoming movies.
func (c *Client) Upcoming(ctx context.Context, page int, region string) (*entity.MoviePage, error) {
	return c.listPage(ctx, "/movie/upcoming", "upcoming", page, region)
}

// TopRated returns top rated movies.
func (c *Client) TopRated(ctx context.Context, page int, region string) (*entity.MoviePage, error) {
	return c.listPage(ctx, "/movie/top_rated", "top_rated", page, region)
}

// listPage implements the shared shape of the paginated list endpoints.
func (c *Client) listPage(ctx context.Context, path, keyPrefix string, page int, region string) (*entity.MoviePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if region != "" {
		q.Set("region", region)
	}

	key := cache.Key(keyPrefix, "movies", fmt.Sprintf("page%d", page), "region"+region)

	var out entity.MoviePage
	if err := c.dep.GetJSON(ctx, path, q, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trending returns trending movies for the given window ("day" or
// "week").
func (c *Client) Trending(ctx context.Context, window string) (*entity.MoviePage, error) {
	if window != "day" && window != "week" {
		return nil, ErrInvalidWindow
	}

	key := cache.Key("trending", "movies", window)

	var out entity.MoviePage
	if err := c.dep.GetJSON(ctx, "/trending/movie/"+window, nil, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details returns detailed information for one movie. The include set
// selects which sub-resources the catalog attaches; when empty,
// DefaultIncludes is used. The cache key encodes the include set so
// different shapes never collide.
func (c *Client) Details(ctx context.Context, movieID int64, include ...string) (*entity.MovieDetails, error) {
	if len(include) == 0 {
		include = DefaultIncludes
	}
	joined := strings.Join(include, ",")

	q := url.Values{}
	q.Set("append_to_response", joined)

	key := cache.Key("movie", strconv.FormatInt(movieID, 10), "include", joined)

	var out entity.MovieDetails
	if err := c.dep.GetJSON(ctx, fmt.Sprintf("/movie/%d", movieID), q, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchParams are the parameters of a movie search.
type SearchParams struct {
	Query        string
	Page         int
	Year         int  // 0 means no year filter
	IncludeAdult bool
}

// Search searches movies by title.
func (c *Client) Search(ctx context.Context, p SearchParams) (*entity.MoviePage, error) {
	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("include_adult", strconv.FormatBool(p.IncludeAdult))
	if p.Year > 0 {
		q.Set("year", strconv.Itoa(p.Year))
	}

	key := cache.Key("search", "movies",
		"q"+p.Query,
		fmt.Sprintf("page%d", p.Page),
		fmt.Sprintf("year%d", p.Year),
		"adult"+strconv.FormatBool(p.IncludeAdult))

	var out entity.MoviePage
	if err := c.dep.GetJSON(ctx, "/search/movie", q, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscoverFilters are the catalog discovery filters. Zero values mean
// "no filter" except Page, which defaults to 1, and SortBy, which
// defaults to popularity.
type DiscoverFilters struct {
	Page           int
	SortBy         string
	WithGenres     []int64
	Year           int
	VoteAverageGTE float64
}

// Discover returns movies matching the given filters.
func (c *Client) Discover(ctx context.Context, f DiscoverFilters) (*entity.MoviePage, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.SortBy == "" {
		f.SortBy = "popularity.desc"
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("sort_by", f.SortBy)

	genres := make([]string, 0, len(f.WithGenres))
	for _, id := range f.WithGenres {
		genres = append(genres, strconv.FormatInt(id, 10))
	}
	if len(genres) > 0 {
		q.Set("with_genres", strings.Join(genres, ","))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.VoteAverageGTE > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(f.VoteAverageGTE, 'f', -1, 64))
	}

	key := cache.Key("discover", "movies",
		fmt.Sprintf("page%d", f.Page),
		"sort"+f.SortBy,
		"genres"+strings.Join(genres, ","),
		fmt.Sprintf("year%d", f.Year),
		fmt.Sprintf("vote%g", f.VoteAverageGTE))

	var out entity.MoviePage
	if err := c.dep.GetJSON(ctx, "/discover/movie", q, key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenreList is the catalog genre index.
type GenreList struct {
	Genres []entity.Genre `json:"genres"`
}

// Genres returns the movie genre index.
func (c *Client) Genres(ctx context.Context) (*GenreList, error) {
	var out GenreList
	if err := c.dep.GetJSON(ctx, "/genre/movie/list", nil, cache.Key("genres", "movies"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
