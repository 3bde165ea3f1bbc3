package dashboard

import (
	"log/slog"
	"net/http"

	"movie-dashboard/internal/handler/http/respond"
	"movie-dashboard/internal/identity"
	"movie-dashboard/internal/observability/logging"
)

// CompleteHandler serves the full dashboard view: popular and trending
// rows plus preference statistics.
type CompleteHandler struct {
	Svc    Service
	Logger *slog.Logger
}

func (h CompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	logger.Info("complete dashboard request",
		slog.String("user_id", identity.FromContext(ctx)))

	feed, err := h.Svc.Complete(ctx)
	if err != nil {
		writeServiceError(w, logger, err)
		return
	}

	respond.JSON(w, http.StatusOK, feed)
}
