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

// FeedHandler serves the personalized popular-movies feed.
type FeedHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("page must be a positive integer"))
			return
		}
		page = parsed
	}

	logger.Info("feed request",
		slog.Int("page", page),
		slog.String("user_id", identity.FromContext(ctx)))

	feed, err := h.Svc.Feed(ctx, page)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, feed)
}
