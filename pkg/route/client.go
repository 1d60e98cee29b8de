// Package route requests walking routes from the Kakao Mobility
// directions API and flattens them into ordered coordinate paths.
package route

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/quest-of-seoul/go-docent/internal/httpc"
)

const defaultBaseURL = "https://apis-navi.kakaomobility.com/v1"

// Priority values accepted by the directions API.
const (
	PriorityRecommend = "RECOMMEND"
	PriorityTime      = "TIME"
	PriorityDistance  = "DISTANCE"
)

// Coordinate is a single point on a route.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is a parsed walking route.
type Route struct {
	// Coordinates is the ordered polyline of the route.
	Coordinates []Coordinate

	// Distance is the total route length in meters.
	Distance int

	// Duration is the estimated travel time in seconds.
	Duration int
}

// Client calls the directions API.
type Client struct {
	baseURL  string
	apiKey   string
	priority string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithPriority sets the route priority (RECOMMEND, TIME, DISTANCE).
func WithPriority(priority string) Option {
	return func(c *Client) {
		c.priority = priority
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "route.client")
	}
}

// NewClient creates a directions client. The API key is required.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	c := &Client{
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		priority: PriorityRecommend,
		http:     httpc.NewClient(15 * time.Second),
		logger:   slog.Default().With("component", "route.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// directionsResponse mirrors the wire shape of the directions API.
// Vertexes alternate longitude,latitude values.
type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance int `json:"distance"`
			Duration int `json:"duration"`
		} `json:"summary"`
		Sections []struct {
			Roads []struct {
				Vertexes []float64 `json:"vertexes"`
			} `json:"roads"`
		} `json:"sections"`
	} `json:"routes"`
}

// WalkingRoute requests a route from origin to destination and returns the
// flattened coordinate path. Returns ErrRouteNotFound when the service has
// no route, and *APIError on a non-success status.
func (c *Client) WalkingRoute(ctx context.Context, originLat, originLon, destLat, destLon float64) (*Route, error) {
	// The API expects origin=lng,lat and destination=lng,lat
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", originLon, originLat))
	params.Set("destination", fmt.Sprintf("%f,%f", destLon, destLat))
	params.Set("priority", c.priority)

	reqURL := c.baseURL + "/directions?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("route: create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("route: decode response: %w", err)
	}

	if len(data.Routes) == 0 {
		return nil, ErrRouteNotFound
	}

	first := data.Routes[0]

	// Concatenate per-road vertex arrays in server order, then consume
	// them pairwise as lng,lat. No reordering or deduplication.
	var vertexes []float64
	for _, section := range first.Sections {
		for _, road := range section.Roads {
			vertexes = append(vertexes, road.Vertexes...)
		}
	}

	coordinates := make([]Coordinate, 0, len(vertexes)/2)
	for i := 0; i+1 < len(vertexes); i += 2 {
		coordinates = append(coordinates, Coordinate{
			Lng: vertexes[i],
			Lat: vertexes[i+1],
		})
	}

	c.logger.Debug("route parsed",
		"points", len(coordinates),
		"distance_m", first.Summary.Distance,
		"duration_s", first.Summary.Duration,
	)

	return &Route{
		Coordinates: coordinates,
		Distance:    first.Summary.Distance,
		Duration:    first.Summary.Duration,
	}, nil
}
