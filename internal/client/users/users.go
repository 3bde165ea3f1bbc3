// Package users provides typed operations over the user-preferences
// dependency. Favorites and watchlist are bounded user-scoped sets, so
// both are fetched whole and indexed by movie ID for enrichment lookups.
// Preference data is per-user and never cached.
package users

import (
	"context"

	"movie-dashboard/internal/client"
	"movie-dashboard/internal/domain/entity"
)

// Client is the preferences dependency client.
type Client struct {
	dep *client.Client
}

// New wraps a configured dependency client with typed preference
// operations.
func New(dep *client.Client) *Client {
	return &Client{dep: dep}
}

type favoritesResponse struct {
	Favorites []entity.FavoriteItem `json:"favorites"`
	Total     int                   `json:"total"`
}

type watchlistResponse struct {
	Watchlist []entity.WatchlistItem `json:"watchlist"`
	Total     int                    `json:"total"`
}

// Favorites returns the caller's favorites indexed by movie ID.
func (c *Client) Favorites(ctx context.Context) (map[int64]entity.FavoriteItem, error) {
	var resp favoritesResponse
	if err := c.dep.GetJSON(ctx, "/api/users/favorites", nil, "", &resp); err != nil {
		return nil, err
	}

	byID := make(map[int64]entity.FavoriteItem, len(resp.Favorites))
	for _, item := range resp.Favorites {
		byID[item.MovieID] = item
	}
	return byID, nil
}

// Watchlist returns the caller's watchlist indexed by movie ID.
func (c *Client) Watchlist(ctx context.Context) (map[int64]entity.WatchlistItem, error) {
	var resp watchlistResponse
	if err := c.dep.GetJSON(ctx, "/api/users/watchlist", nil, "", &resp); err != nil {
		return nil, err
	}

	byID := make(map[int64]entity.WatchlistItem, len(resp.Watchlist))
	for _, item := range resp.Watchlist {
		byID[item.MovieID] = item
	}
	return byID, nil
}
