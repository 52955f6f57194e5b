package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/essence-team/essence-backend/pkg/config"
)

// GroqClient is a minimal client for Groq API calls used for summarization,
// structured inference and speech synthesis
type GroqClient struct {
	apiKey    string
	baseURL   string
	chatModel string
	ttsModel  string
	ttsVoice  string
	client    *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GROQ_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}

	chatModel := "llama-3.1-70b-versatile"
	ttsModel := "playai-tts"
	ttsVoice := "Fritz-PlayAI"
	if cfg != nil {
		if cfg.ChatModel != "" {
			chatModel = cfg.ChatModel
		}
		if cfg.TTSModel != "" {
			ttsModel = cfg.TTSModel
		}
		if cfg.TTSVoice != "" {
			ttsVoice = cfg.TTSVoice
		}
	}

	return &GroqClient{
		apiKey:    apiKey,
		baseURL:   base,
		chatModel: chatModel,
		ttsModel:  ttsModel,
		ttsVoice:  ttsVoice,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model            string    `json:"model,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Temperature      float64   `json:"temperature,omitempty"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	TopP             float64   `json:"top_p,omitempty"`
	FrequencyPenalty float64   `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64   `json:"presence_penalty,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SpeechRequest is the shape for speech synthesis requests
type SpeechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// ChatCompletion sends a system instruction plus user input and returns the
// assistant content. Sampling stays moderate so summaries remain stable
// across repeated requests for the same article.
func (g *GroqClient) ChatCompletion(ctx context.Context, instructions, input string) (string, error) {
	reqBody := ChatRequest{
		Model: g.chatModel,
		Messages: []Message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: input},
		},
		Temperature: 0.5,
		MaxTokens:   500,
		TopP:        1,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

// SynthesizeSpeech converts text to mp3 audio bytes
func (g *GroqClient) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	reqBody := SpeechRequest{
		Model:          g.ttsModel,
		Input:          text,
		Voice:          g.ttsVoice,
		ResponseFormat: "mp3",
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := g.baseURL + "/openai/v1/audio/speech"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("groq speech returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio from groq")
	}
	return audio, nil
}
