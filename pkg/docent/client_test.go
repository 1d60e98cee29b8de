package docent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quest-of-seoul/go-docent/pkg/docent"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/docent/chat" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req docent.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Landmark != "Gyeongbokgung" {
			t.Errorf("landmark = %q, want Gyeongbokgung", req.Landmark)
		}

		json.NewEncoder(w).Encode(docent.ChatResponse{
			Message:  "Welcome to the palace",
			Landmark: "Gyeongbokgung",
		})
	}))
	defer srv.Close()

	client := docent.NewClient(srv.URL)
	resp, err := client.Chat(context.Background(), docent.ChatRequest{
		UserID:      "u1",
		Landmark:    "Gyeongbokgung",
		UserMessage: "Tell me about this place",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Message != "Welcome to the palace" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestNearbyQuests(t *testing.T) {
	t.Run("returns quests in range", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Lat      float64 `json:"lat"`
				Lon      float64 `json:"lon"`
				RadiusKm float64 `json:"radius_km"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.RadiusKm != 2.0 {
				t.Errorf("radius_km = %v, want 2.0", req.RadiusKm)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"quests": []docent.Quest{
					{ID: "q1", Title: "Palace walk", DistanceKm: 0.4},
				},
			})
		}))
		defer srv.Close()

		client := docent.NewClient(srv.URL)
		quests, err := client.NearbyQuests(context.Background(), 37.5796, 126.977, 2.0)
		if err != nil {
			t.Fatalf("NearbyQuests: %v", err)
		}
		if len(quests) != 1 || quests[0].ID != "q1" {
			t.Errorf("quests = %+v", quests)
		}
	})

	t.Run("empty result is ErrNoQuests", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"quests": []docent.Quest{}})
		}))
		defer srv.Close()

		client := docent.NewClient(srv.URL)
		_, err := client.NearbyQuests(context.Background(), 0, 0, 1.0)
		if !errors.Is(err, docent.ErrNoQuests) {
			t.Errorf("err = %v, want ErrNoQuests", err)
		}
	})
}

func TestPointsAndRewards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reward/points/u1":
			json.NewEncoder(w).Encode(docent.Points{UserID: "u1", Points: 180})
		case "/reward/points/add":
			var req struct {
				Points int `json:"points"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Points != 60 {
				t.Errorf("points = %d, want 60", req.Points)
			}
			w.WriteHeader(http.StatusOK)
		case "/reward/claim":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := docent.NewClient(srv.URL)
	ctx := context.Background()

	points, err := client.Points(ctx, "u1")
	if err != nil {
		t.Fatalf("Points: %v", err)
	}
	if points.Points != 180 {
		t.Errorf("points = %d, want 180", points.Points)
	}

	if err := client.AddPoints(ctx, "u1", 60, "quiz complete"); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := client.ClaimReward(ctx, "u1", "r1"); err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
}

func TestAPIError(t *testing.T) {
	t.Run("fastapi detail message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "quest not found"})
		}))
		defer srv.Close()

		client := docent.NewClient(srv.URL)
		_, err := client.QuestDetail(context.Background(), "missing")

		var apiErr *docent.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want *APIError", err)
		}
		if !apiErr.IsNotFound() {
			t.Errorf("status = %d, want 404", apiErr.StatusCode)
		}
		if apiErr.Message != "quest not found" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := docent.NewClient(srv.URL)
		_, err := client.Quests(context.Background())

		var apiErr *docent.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want *APIError", err)
		}
		if !apiErr.IsServerError() {
			t.Errorf("status = %d, want 5xx", apiErr.StatusCode)
		}
	})
}
