package docent

// ChatRequest asks the docent about a landmark, optionally carrying a
// free-form user message for an ongoing conversation.
type ChatRequest struct {
	UserID      string `json:"user_id"`
	Landmark    string `json:"landmark"`
	UserMessage string `json:"user_message,omitempty"`
	Language    string `json:"language,omitempty"`
	EnableTTS   bool   `json:"enable_tts"`
	PreferURL   bool   `json:"prefer_url,omitempty"`
}

// ChatResponse is the docent's reply to a chat request.
type ChatResponse struct {
	Message  string `json:"message"`
	Landmark string `json:"landmark,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
	Audio    string `json:"audio,omitempty"` // base64, when no URL is available
}

// TTSRequest converts text to speech.
type TTSRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
	PreferURL    bool   `json:"prefer_url,omitempty"`
}

// TTSResponse carries the synthesized audio.
type TTSResponse struct {
	AudioURL string `json:"audio_url,omitempty"`
	Audio    string `json:"audio,omitempty"`
}

// ChatMessage is one stored message in the chat history.
type ChatMessage struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Landmark  string `json:"landmark,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Quest is a tour quest record. The schema is owned by the backend; only
// the fields the client reads are declared here.
type Quest struct {
	ID          string  `json:"quest_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Points      int     `json:"points,omitempty"`
	Status      string  `json:"status,omitempty"`
	DistanceKm  float64 `json:"distance_km,omitempty"`
}

// QuestProgress updates the status of a user's quest.
type QuestProgress struct {
	UserID  string `json:"user_id"`
	QuestID string `json:"quest_id"`
	Status  string `json:"status"`
}

// Quiz is one question attached to a quest.
type Quiz struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
	Hint          string   `json:"hint,omitempty"`
	Points        int      `json:"points,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Place describes the location a quest belongs to.
type Place struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// QuestDetail is a quest with its place and quiz questions.
type QuestDetail struct {
	Place   Place  `json:"place"`
	Quizzes []Quiz `json:"quizzes"`
}

// Points is a user's reward point balance.
type Points struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// Reward is a claimable reward record.
type Reward struct {
	ID          string `json:"reward_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cost        int    `json:"cost"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ClaimedReward is a reward the user has already claimed.
type ClaimedReward struct {
	ID        string `json:"reward_id"`
	Name      string `json:"name"`
	ClaimedAt string `json:"claimed_at,omitempty"`
	Used      bool   `json:"used"`
}

// AnalysisResult is the image-analysis response: places that look similar
// to the submitted photo.
type AnalysisResult struct {
	Places []Place `json:"places"`
}

// TextFrame is a structured text frame received during a streaming
// exchange.
type TextFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Landmark string `json:"landmark,omitempty"`
	Error    string `json:"error,omitempty"`
}

// StreamHandlers are optional callbacks invoked during a streaming chat
// exchange, in frame receipt order.
type StreamHandlers struct {
	// OnText is called for each structured text frame.
	OnText func(frame TextFrame)

	// OnAudioChunk is called for each binary audio frame as it arrives.
	OnAudioChunk func(chunk []byte)
}

// ChatResult is the outcome of a streaming chat exchange: the final text
// payload plus every binary audio frame in arrival order.
type ChatResult struct {
	Message  string
	Landmark string
	Chunks   [][]byte
}
