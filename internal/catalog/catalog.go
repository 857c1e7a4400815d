// Package catalog is the client for the external movie/TV metadata
// service (TMDB API v3).
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

const requestTimeout = 15 * time.Second

// ErrUnavailable marks transport-level catalog failures: the request
// never completed or the catalog answered outside 2xx. Data-quality
// problems in an otherwise successful response are not this error.
var ErrUnavailable = errors.New("catalog unavailable")

// NextEpisode is the next scheduled episode of a show, when announced.
type NextEpisode struct {
	AirDate string `json:"air_date"`
}

// TVShow is the subset of show metadata this service reads.
type TVShow struct {
	Name             string       `json:"name"`
	Status           string       `json:"status"`
	NextEpisodeToAir *NextEpisode `json:"next_episode_to_air"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewFromEnv builds a client from TMDB_BASE_URL and TMDB_API_KEY.
func NewFromEnv() *Client {
	return New(os.Getenv("TMDB_BASE_URL"), os.Getenv("TMDB_API_KEY"))
}

// TVShow fetches show metadata by catalog id.
func (c *Client) TVShow(ctx context.Context, id string) (*TVShow, error) {
	reqURL := fmt.Sprintf("%s/tv/%s?language=en-US&api_key=%s",
		c.baseURL, url.PathEscape(id), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for show %s", ErrUnavailable, resp.StatusCode, id)
	}

	var show TVShow
	if err := json.NewDecoder(resp.Body).Decode(&show); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return &show, nil
}
