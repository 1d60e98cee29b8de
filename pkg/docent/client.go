// Package docent is the client for the Quest of Seoul docent backend.
//
// The backend exposes JSON-over-HTTP endpoints for chat, quests, quizzes
// and rewards, plus WebSocket endpoints that stream a docent reply as a
// text frame followed by binary TTS audio frames. This package wraps both:
// plain request/response calls on Client, and one-shot streaming exchanges
// via ChatStream and SpeakStream.
package docent

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quest-of-seoul/go-docent/internal/httpc"
)

// Client calls the docent backend. A single attempt per request, fail
// fast: transport and server errors are surfaced to the caller unchanged,
// never retried.
type Client struct {
	baseURL   string
	wsBaseURL string
	http      *http.Client
	dialTO    time.Duration
	logger    *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithHandshakeTimeout sets the WebSocket handshake timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.dialTO = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "docent.client")
	}
}

// NewClient creates a backend client from the HTTP base URL. The
// WebSocket base URL is derived from it (http to ws, https to wss).
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	wsURL := strings.Replace(baseURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)

	c := &Client{
		baseURL:   baseURL,
		wsBaseURL: wsURL,
		http:      httpc.Client,
		dialTO:    10 * time.Second,
		logger:    slog.Default().With("component", "docent.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat asks the docent about a landmark over plain HTTP.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/docent/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Quiz fetches quiz questions about a landmark.
func (c *Client) Quiz(ctx context.Context, landmark, language string) ([]Quiz, error) {
	params := url.Values{}
	params.Set("landmark", landmark)
	if language != "" {
		params.Set("language", language)
	}

	var resp struct {
		Quizzes []Quiz `json:"quizzes"`
	}
	if err := c.post(ctx, "/docent/quiz?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Quizzes, nil
}

// Speak converts text to speech over plain HTTP.
func (c *Client) Speak(ctx context.Context, req TTSRequest) (*TTSResponse, error) {
	var resp TTSResponse
	if err := c.post(ctx, "/docent/tts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns the user's most recent chat messages.
func (c *Client) History(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	path := fmt.Sprintf("/docent/history/%s?limit=%d", url.PathEscape(userID), limit)

	var resp struct {
		Messages []ChatMessage `json:"messages"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// AnalyzeImage submits a photo for landmark recognition.
func (c *Client) AnalyzeImage(ctx context.Context, userID string, image []byte, language string) (*AnalysisResult, error) {
	payload := map[string]any{
		"user_id":  userID,
		"image":    base64.StdEncoding.EncodeToString(image),
		"language": language,
	}

	var resp AnalysisResult
	if err := c.post(ctx, "/docent/analyze", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Quests lists all quests.
func (c *Client) Quests(ctx context.Context) ([]Quest, error) {
	var resp struct {
		Quests []Quest `json:"quests"`
	}
	if err := c.get(ctx, "/quest/list", &resp); err != nil {
		return nil, err
	}
	return resp.Quests, nil
}

// NearbyQuests lists quests within radiusKm of the given point.
// Returns ErrNoQuests when nothing is in range, so callers can show a
// specific message or fall back to placeholder data.
func (c *Client) NearbyQuests(ctx context.Context, lat, lon, radiusKm float64) ([]Quest, error) {
	payload := map[string]any{
		"lat":       lat,
		"lon":       lon,
		"radius_km": radiusKm,
	}

	var resp struct {
		Quests []Quest `json:"quests"`
	}
	if err := c.post(ctx, "/quest/nearby", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Quests) == 0 {
		return nil, ErrNoQuests
	}
	return resp.Quests, nil
}

// UpdateQuestProgress records quest progress for a user.
func (c *Client) UpdateQuestProgress(ctx context.Context, progress QuestProgress) error {
	return c.post(ctx, "/quest/progress", progress, nil)
}

// UserQuests lists the user's quests, optionally filtered by status.
func (c *Client) UserQuests(ctx context.Context, userID, status string) ([]Quest, error) {
	path := "/quest/user/" + url.PathEscape(userID)
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var resp struct {
		Quests []Quest `json:"quests"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Quests, nil
}

// QuestDetail returns a quest's place and quiz questions.
func (c *Client) QuestDetail(ctx context.Context, questID string) (*QuestDetail, error) {
	var resp QuestDetail
	if err := c.get(ctx, "/quest/"+url.PathEscape(questID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Points returns the user's reward point balance.
func (c *Client) Points(ctx context.Context, userID string) (*Points, error) {
	var resp Points
	if err := c.get(ctx, "/reward/points/"+url.PathEscape(userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddPoints credits points to the user.
func (c *Client) AddPoints(ctx context.Context, userID string, points int, reason string) error {
	payload := map[string]any{
		"user_id": userID,
		"points":  points,
		"reason":  reason,
	}
	return c.post(ctx, "/reward/points/add", payload, nil)
}

// Rewards lists the available rewards.
func (c *Client) Rewards(ctx context.Context) ([]Reward, error) {
	var resp struct {
		Rewards []Reward `json:"rewards"`
	}
	if err := c.get(ctx, "/reward/list", &resp); err != nil {
		return nil, err
	}
	return resp.Rewards, nil
}

// ClaimReward claims a reward for the user.
func (c *Client) ClaimReward(ctx context.Context, userID, rewardID string) error {
	payload := map[string]any{
		"user_id":   userID,
		"reward_id": rewardID,
	}
	return c.post(ctx, "/reward/claim", payload, nil)
}

// ClaimedRewards lists the rewards the user has claimed.
func (c *Client) ClaimedRewards(ctx context.Context, userID string) ([]ClaimedReward, error) {
	var resp struct {
		ClaimedRewards []ClaimedReward `json:"claimed_rewards"`
	}
	if err := c.get(ctx, "/reward/claimed/"+url.PathEscape(userID), &resp); err != nil {
		return nil, err
	}
	return resp.ClaimedRewards, nil
}

// UseReward marks a claimed reward as used.
func (c *Client) UseReward(ctx context.Context, userID, rewardID string) error {
	path := fmt.Sprintf("/reward/use/%s?user_id=%s", url.PathEscape(rewardID), url.QueryEscape(userID))
	return c.post(ctx, path, nil, nil)
}

// post makes a POST request and decodes the response into out (when out
// is non-nil).
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("docent: marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("docent: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// get makes a GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("docent: create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("docent: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("docent: decode response: %w", err)
	}
	return nil
}

// parseError reads and parses an error response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	// FastAPI style: {"detail": "..."}; also accept {"error": "..."}
	var errResp struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}

	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Detail != "" {
			message = errResp.Detail
		} else if errResp.Error != "" {
			message = errResp.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
