package route_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quest-of-seoul/go-docent/pkg/route"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *route.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := route.NewClient("test-key", route.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := route.NewClient(""); err != route.ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestWalkingRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("parses vertexes pairwise", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
				t.Errorf("unexpected auth header: %s", got)
			}
			if got := r.URL.Query().Get("priority"); got != "RECOMMEND" {
				t.Errorf("unexpected priority: %s", got)
			}
			w.Write([]byte(`{
				"routes": [{
					"summary": {"distance": 1200, "duration": 900},
					"sections": [{"roads": [{"vertexes": [10, 20, 11, 21]}]}]
				}]
			}`))
		})

		r, err := c.WalkingRoute(ctx, 20, 10, 21, 11)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []route.Coordinate{{Lng: 10, Lat: 20}, {Lng: 11, Lat: 21}}
		if len(r.Coordinates) != len(want) {
			t.Fatalf("expected %d coordinates, got %d", len(want), len(r.Coordinates))
		}
		for i, coord := range want {
			if r.Coordinates[i] != coord {
				t.Errorf("coordinate %d: expected %+v, got %+v", i, coord, r.Coordinates[i])
			}
		}
		if r.Distance != 1200 {
			t.Errorf("expected distance 1200, got %d", r.Distance)
		}
		if r.Duration != 900 {
			t.Errorf("expected duration 900, got %d", r.Duration)
		}
	})

	t.Run("concatenates sections in order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"routes": [{
					"summary": {"distance": 10, "duration": 10},
					"sections": [
						{"roads": [{"vertexes": [1, 2]}, {"vertexes": [3, 4]}]},
						{"roads": [{"vertexes": [5, 6]}]}
					]
				}]
			}`))
		})

		r, err := c.WalkingRoute(ctx, 0, 0, 1, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []route.Coordinate{{Lng: 1, Lat: 2}, {Lng: 3, Lat: 4}, {Lng: 5, Lat: 6}}
		for i, coord := range want {
			if r.Coordinates[i] != coord {
				t.Errorf("coordinate %d: expected %+v, got %+v", i, coord, r.Coordinates[i])
			}
		}
	})

	t.Run("empty routes is not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"routes": []}`))
		})

		_, err := c.WalkingRoute(ctx, 0, 0, 1, 1)
		if !errors.Is(err, route.ErrRouteNotFound) {
			t.Errorf("expected ErrRouteNotFound, got %v", err)
		}
	})

	t.Run("non-success status is an API error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})

		_, err := c.WalkingRoute(ctx, 0, 0, 1, 1)
		var apiErr *route.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", apiErr.StatusCode)
		}
	})
}
