package dto

// SummarizeRequest is the body for POST /summarize. Test is a presence flag:
// any value, even false, bypasses the cache lookup.
type SummarizeRequest struct {
	URL        string `json:"url" validate:"required,url"`
	Transcript string `json:"transcript" validate:"required,min=100"`
	UserID     string `json:"user_id,omitempty"`
	Test       *bool  `json:"test,omitempty"`
}

// InferenceRequest is the body for POST /inference
type InferenceRequest struct {
	URL        string `json:"url" validate:"required,url"`
	Transcript string `json:"transcript" validate:"required,min=100"`
	UserID     string `json:"user_id,omitempty"`
	Test       *bool  `json:"test,omitempty"`
	Audio      bool   `json:"audio,omitempty"`
}

// StreamRequest is the body for POST /stream. Instructions customize the
// summary prompt and participate in content id derivation.
type StreamRequest struct {
	URL          string `json:"url" validate:"required,url"`
	Transcript   string `json:"transcript" validate:"required,min=100"`
	UserID       string `json:"user_id,omitempty"`
	Test         *bool  `json:"test,omitempty"`
	Audio        bool   `json:"audio,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// SummaryResponse is the transport shape of a summary record. The raw
// transcript and the internal audio object reference never appear here: the
// audio URL is always a time-limited presigned link.
type SummaryResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id,omitempty"`
	CleanURL       string   `json:"clean_url,omitempty"`
	TextSummary    string   `json:"text_summary,omitempty"`
	SummaryBullets []string `json:"summary_bullets,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
	Tweet          string   `json:"tweet,omitempty"`
	KeyTopics      []string `json:"key_topics,omitempty"`
	Depth          string   `json:"depth,omitempty"`
	TimeSaved      string   `json:"time_saved,omitempty"`
	AudioURL       string   `json:"audio_url,omitempty"`
	DateCreated    string   `json:"dateCreated,omitempty"`
}

// GreetingResponse is the body for GET /
type GreetingResponse struct {
	Message string `json:"message"`
}

// ListSummariesResponse is the body for the administrative list endpoint
type ListSummariesResponse struct {
	Summaries []*SummaryResponse `json:"summaries"`
	Count     int                `json:"count"`
}
