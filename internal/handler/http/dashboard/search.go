package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"movie-dashboard/internal/client/tmdb"
	"movie-dashboard/internal/handler/http/respond"
	"movie-dashboard/internal/identity"
	"movie-dashboard/internal/observability/logging"
)

// SearchHandler serves enriched movie search results.
type SearchHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	q := r.URL.Query()
	params := tmdb.SearchParams{
		Query: q.Get("query"),
		Page:  1,
	}

	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("page must be a positive integer"))
			return
		}
		params.Page = parsed
	}
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1800 {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("year must be a valid year"))
			return
		}
		params.Year = parsed
	}
	if raw := q.Get("include_adult"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("include_adult must be a boolean"))
			return
		}
		params.IncludeAdult = parsed
	}

	logger.Info("search request",
		slog.String("query", params.Query),
		slog.Int("page", params.Page),
		slog.String("user_id", identity.FromContext(ctx)))

	feed, err := h.Svc.Search(ctx, params)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, feed)
}
