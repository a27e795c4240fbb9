// Package joke is an HTTP client for the icanhazdadjoke service.
package joke

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chaterrors "chat-relay/errors"
)

const userAgent = "chat-relay"

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger
}

// NewClient builds a client against the given base URL. The timeout
// bounds the whole request so a stalled joke service cannot retain a
// session's resources forever.
func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		log:        log,
	}
}

type jokeResponse struct {
	ID     string `json:"id"`
	Joke   string `json:"joke"`
	Status int    `json:"status"`
}

// FetchJoke returns one random joke. Every failure mode wraps
// ErrJokeUnavailable; callers degrade gracefully instead of crashing.
func (c *Client) FetchJoke(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", chaterrors.ErrJokeUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", chaterrors.ErrJokeUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", chaterrors.ErrJokeUnavailable, resp.StatusCode)
	}

	var payload jokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", chaterrors.ErrJokeUnavailable, err)
	}

	c.log.Debug("Joke fetched", "id", payload.ID)
	return payload.Joke, nil
}
