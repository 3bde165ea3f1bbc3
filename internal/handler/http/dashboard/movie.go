package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"movie-dashboard/internal/handler/http/respond"
	"movie-dashboard/internal/identity"
	"movie-dashboard/internal/observability/logging"
)

// MovieHandler serves enriched movie details.
type MovieHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h MovieHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	movieID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || movieID < 1 {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("movie id must be a positive integer"))
		return
	}

	logger.Info("movie details request",
		slog.Int64("movie_id", movieID),
		slog.String("user_id", identity.FromContext(ctx)))

	details, err := h.Svc.MovieDetails(ctx, movieID)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, details)
}
