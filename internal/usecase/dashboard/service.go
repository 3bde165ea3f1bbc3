package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"movie-dashboard/internal/client"
	"movie-dashboard/internal/client/tmdb"
	"movie-dashboard/internal/domain/entity"
	"movie-dashboard/internal/observability/metrics"
)

// Merge truncation limits, following the catalog's own ordering. Applied
// after enrichment, never re-sorted.
const (
	maxCastMembers   = 10
	maxCrewMembers   = 10
	maxSimilarMovies = 6
	maxDashboardRows = 12
)

// Catalog is the primary content dependency. Its failure is fatal to an
// aggregation.
type Catalog interface {
	Popular(ctx context.Context, page int, region string) (*entity.MoviePage, error)
	Trending(ctx context.Context, window string) (*entity.MoviePage, error)
	Details(ctx context.Context, movieID int64, include ...string) (*entity.MovieDetails, error)
	Search(ctx context.Context, p tmdb.SearchParams) (*entity.MoviePage, error)
}

// Preferences is the secondary context dependency. Its failure degrades
// annotations to defaults and never fails an aggregation.
type Preferences interface {
	Favorites(ctx context.Context) (map[int64]entity.FavoriteItem, error)
	Watchlist(ctx context.Context) (map[int64]entity.WatchlistItem, error)
}

// Service aggregates the catalog and preference dependencies into
// enriched dashboard views. One instance is shared across requests; the
// dependency clients it holds own the per-dependency breakers.
type Service struct {
	Catalog Catalog
	Prefs   Preferences
}

// outcome is the tagged result of one concurrent dependency branch.
// Collecting outcomes instead of returning errors from the fan-out keeps
// one branch's failure from cancelling its siblings and makes the
// partial-failure policy explicit at the merge point.
type outcome[T any] struct {
	value T
	err   error
}

// Feed returns the personalized feed: one page of popular movies
// annotated with the caller's favorite/watchlist/rating context.
func (s *Service) Feed(ctx context.Context, page int) (*entity.PersonalizedFeed, error) {
	start := time.Now()

	var (
		popular   outcome[*entity.MoviePage]
		favorites map[int64]entity.FavoriteItem
		watchlist map[int64]entity.WatchlistItem
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := s.Catalog.Popular(ctx, page, "")
		popular = outcome[*entity.MoviePage]{v, err}
		return nil
	})
	g.Go(func() error {
		favorites = s.favoritesOrEmpty(ctx)
		return nil
	})
	g.Go(func() error {
		watchlist = s.watchlistOrEmpty(ctx)
		return nil
	})
	_ = g.Wait()

	if popular.err != nil {
		metrics.RecordAggregation("feed", false, time.Since(start))
		return nil, fmt.Errorf("%w: list popular page %d: %w", ErrAggregationFailed, page, popular.err)
	}

	movies := make([]entity.EnrichedMovie, 0, len(popular.value.Results))
	for _, m := range popular.value.Results {
		movies = append(movies, enrichMovie(m, favorites, watchlist))
	}

	metrics.RecordAggregation("feed", true, time.Since(start))
	return &entity.PersonalizedFeed{
		Movies:         movies,
		CurrentPage:    popular.value.Page,
		TotalPages:     popular.value.TotalPages,
		TotalResults:   popular.value.TotalResults,
		FavoritesCount: len(favorites),
		WatchlistCount: len(watchlist),
	}, nil
}

// MovieDetails returns one movie's details merged with the caller's
// preference context for that movie.
func (s *Service) MovieDetails(ctx context.Context, movieID int64) (*entity.EnrichedMovieDetails, error) {
	start := time.Now()

	var (
		details   outcome[*entity.MovieDetails]
		favorites map[int64]entity.FavoriteItem
		watchlist map[int64]entity.WatchlistItem
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := s.Catalog.Details(ctx, movieID)
		details = outcome[*entity.MovieDetails]{v, err}
		return nil
	})
	g.Go(func() error {
		favorites = s.favoritesOrEmpty(ctx)
		return nil
	})
	g.Go(func() error {
		watchlist = s.watchlistOrEmpty(ctx)
		return nil
	})
	_ = g.Wait()

	if details.err != nil {
		metrics.RecordAggregation("movie_details", false, time.Since(start))
		if client.IsStatus(details.err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrMovieNotFound, movieID)
		}
		return nil, fmt.Errorf("%w: get movie %d: %w", ErrAggregationFailed, movieID, details.err)
	}

	d := details.value

	userData := entity.UserMovieData{}
	if fav, ok := favorites[movieID]; ok {
		userData.IsFavorite = true
		userData.UserRating = fav.Rating
		userData.AddedToFavoritesDate = fav.AddedDate
	}
	if item, ok := watchlist[movieID]; ok {
		userData.IsInWatchlist = true
		userData.AddedToWatchlistDate = item.AddedDate
	}

	enriched := &entity.EnrichedMovieDetails{
		MovieDetails:  *d,
		UserData:      userData,
		Cast:          []entity.CastMember{},
		Crew:          []entity.CrewMember{},
		SimilarMovies: []entity.Movie{},
	}
	if d.Credits != nil {
		enriched.Cast = truncate(d.Credits.Cast, maxCastMembers)
		enriched.Crew = truncate(d.Credits.Crew, maxCrewMembers)
	}
	if d.Reviews != nil {
		enriched.ReviewsCount = d.Reviews.TotalResults
	}
	if d.Similar != nil {
		enriched.SimilarMovies = truncate(d.Similar.Results, maxSimilarMovies)
	}

	metrics.RecordAggregation("movie_details", true, time.Since(start))
	return enriched, nil
}

// Complete returns the full dashboard: popular and trending rows plus
// aggregate preference statistics. Both catalog rows degrade to empty
// lists on failure so a partial dashboard still renders; only the
// preference statistics go to zero when the preferences dependency is
// down.
func (s *Service) Complete(ctx context.Context) (*entity.DashboardFeed, error) {
	start := time.Now()

	var (
		popular   outcome[*entity.MoviePage]
		trending  outcome[*entity.MoviePage]
		favorites map[int64]entity.FavoriteItem
		watchlist map[int64]entity.WatchlistItem
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := s.Catalog.Popular(ctx, 1, "")
		popular = outcome[*entity.MoviePage]{v, err}
		return nil
	})
	g.Go(func() error {
		v, err := s.Catalog.Trending(ctx, "day")
		trending = outcome[*entity.MoviePage]{v, err}
		return nil
	})
	g.Go(func() error {
		favorites = s.favoritesOrEmpty(ctx)
		return nil
	})
	g.Go(func() error {
		watchlist = s.watchlistOrEmpty(ctx)
		return nil
	})
	_ = g.Wait()

	popularMovies := rowOrEmpty("popular", popular)
	trendingMovies := rowOrEmpty("trending", trending)

	feed := &entity.DashboardFeed{
		PopularMovies:  enrichAll(truncate(popularMovies, maxDashboardRows), favorites, watchlist),
		TrendingMovies: enrichAll(truncate(trendingMovies, maxDashboardRows), favorites, watchlist),
		Stats:          computeStats(favorites, watchlist),
	}

	metrics.RecordAggregation("complete", true, time.Since(start))
	return feed, nil
}

// Search returns catalog search results annotated with the caller's
// preference context.
func (s *Service) Search(ctx context.Context, p tmdb.SearchParams) (*entity.SearchFeed, error) {
	if p.Query == "" {
		return nil, ErrInvalidQuery
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	start := time.Now()

	var (
		results   outcome[*entity.MoviePage]
		favorites map[int64]entity.FavoriteItem
		watchlist map[int64]entity.WatchlistItem
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := s.Catalog.Search(ctx, p)
		results = outcome[*entity.MoviePage]{v, err}
		return nil
	})
	g.Go(func() error {
		favorites = s.favoritesOrEmpty(ctx)
		return nil
	})
	g.Go(func() error {
		watchlist = s.watchlistOrEmpty(ctx)
		return nil
	})
	_ = g.Wait()

	if results.err != nil {
		metrics.RecordAggregation("search", false, time.Since(start))
		return nil, fmt.Errorf("%w: search %q page %d: %w", ErrAggregationFailed, p.Query, p.Page, results.err)
	}

	metrics.RecordAggregation("search", true, time.Since(start))
	return &entity.SearchFeed{
		Results:      enrichAll(results.value.Results, favorites, watchlist),
		Query:        p.Query,
		Page:         results.value.Page,
		TotalPages:   results.value.TotalPages,
		TotalResults: results.value.TotalResults,
	}, nil
}

// favoritesOrEmpty fetches the caller's favorites, degrading to an empty
// mapping when the preferences dependency is unavailable.
func (s *Service) favoritesOrEmpty(ctx context.Context) map[int64]entity.FavoriteItem {
	favorites, err := s.Prefs.Favorites(ctx)
	if err != nil {
		slog.Warn("favorites unavailable, continuing without",
			slog.Any("error", err))
		metrics.RecordSecondaryFallback("favorites")
		return map[int64]entity.FavoriteItem{}
	}
	return favorites
}

// watchlistOrEmpty fetches the caller's watchlist, degrading to an empty
// mapping when the preferences dependency is unavailable.
func (s *Service) watchlistOrEmpty(ctx context.Context) map[int64]entity.WatchlistItem {
	watchlist, err := s.Prefs.Watchlist(ctx)
	if err != nil {
		slog.Warn("watchlist unavailable, continuing without",
			slog.Any("error", err))
		metrics.RecordSecondaryFallback("watchlist")
		return map[int64]entity.WatchlistItem{}
	}
	return watchlist
}

// rowOrEmpty extracts a dashboard row from a catalog outcome, degrading
// to an empty list on failure.
func rowOrEmpty(name string, o outcome[*entity.MoviePage]) []entity.Movie {
	if o.err != nil {
		slog.Warn("dashboard row unavailable, rendering empty",
			slog.String("row", name),
			slog.Any("error", o.err))
		return nil
	}
	return o.value.Results
}

// enrichMovie annotates one catalog movie with the caller's preference
// context. Absent lookups yield the defaults: not a favorite, not in the
// watchlist, no rating.
func enrichMovie(m entity.Movie, favorites map[int64]entity.FavoriteItem, watchlist map[int64]entity.WatchlistItem) entity.EnrichedMovie {
	enriched := entity.EnrichedMovie{Movie: m}
	if fav, ok := favorites[m.ID]; ok {
		enriched.IsFavorite = true
		enriched.UserRating = fav.Rating
	}
	if _, ok := watchlist[m.ID]; ok {
		enriched.IsInWatchlist = true
	}
	return enriched
}

// enrichAll annotates a movie list, preserving the catalog's ordering.
func enrichAll(movies []entity.Movie, favorites map[int64]entity.FavoriteItem, watchlist map[int64]entity.WatchlistItem) []entity.EnrichedMovie {
	out := make([]entity.EnrichedMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, enrichMovie(m, favorites, watchlist))
	}
	return out
}

// computeStats derives aggregate statistics from the preference
// contexts. The average rating covers only favorites that carry a
// rating and is absent when none do.
func computeStats(favorites map[int64]entity.FavoriteItem, watchlist map[int64]entity.WatchlistItem) entity.DashboardStats {
	stats := entity.DashboardStats{
		TotalFavorites: len(favorites),
		TotalWatchlist: len(watchlist),
	}

	var sum, rated int
	for _, fav := range favorites {
		if fav.Rating != nil {
			sum += *fav.Rating
			rated++
		}
	}
	if rated > 0 {
		avg := float64(sum) / float64(rated)
		stats.AvgRating = &avg
	}
	return stats
}

// truncate returns at most n leading elements, keeping the source order.
func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
