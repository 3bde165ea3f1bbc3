// Package dashboard exposes the aggregation use cases over HTTP.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"movie-dashboard/internal/client/tmdb"
	"movie-dashboard/internal/domain/entity"
	"movie-dashboard/internal/handler/http/respond"
	dashUC "movie-dashboard/internal/usecase/dashboard"
)

// Service is the aggregation surface consumed by the handlers.
type Service interface {
	Feed(ctx context.Context, page int) (*entity.PersonalizedFeed, error)
	MovieDetails(ctx context.Context, movieID int64) (*entity.EnrichedMovieDetails, error)
	Complete(ctx context.Context) (*entity.DashboardFeed, error)
	Search(ctx context.Context, p tmdb.SearchParams) (*entity.SearchFeed, error)
}

var _ Service = (*dashUC.Service)(nil)

// Register registers all dashboard HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc Service, logger *slog.Logger) {
	mux.Handle("GET    /api/dashboard/feed", FeedHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /api/dashboard/movie/{id}/enriched", MovieHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /api/dashboard/complete", CompleteHandler{Svc: svc, Logger: logger})
	mux.Handle("GET    /api/dashboard/search/enriched", SearchHandler{Svc: svc, Logger: logger})
}

// writeServiceError maps aggregation errors to HTTP responses. The
// sentinel is returned instead of the wrapped chain so that upstream
// URLs and response bodies never reach the client.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, dashUC.ErrInvalidQuery):
		respond.SafeError(w, http.StatusBadRequest, dashUC.ErrInvalidQuery)
	case errors.Is(err, dashUC.ErrMovieNotFound):
		respond.SafeError(w, http.StatusNotFound, dashUC.ErrMovieNotFound)
	default:
		logger.Error("aggregation failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, dashUC.ErrAggregationFailed)
	}
}
