package summarize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/essence-team/essence-backend/internal/domain/entities"
)

// InferenceResult is the structured analysis extracted from the model's
// inference response.
type InferenceResult struct {
	Depth     string   `json:"depth"`
	Tone      string   `json:"tone"`
	Sentiment string   `json:"sentiment"`
	Tweet     string   `json:"tweet"`
	KeyTopics []string `json:"key_topics"`
}

// ParseInference parses the model output of the inference call. Models are
// asked for bare JSON but regularly wrap it in markdown fences or prose, so
// the raw object is extracted first. A result with no recognizable fields is
// treated as unparsable.
func ParseInference(raw string) (*InferenceResult, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON object in model output", entities.ErrUnparsableInference)
	}

	var result InferenceResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnparsableInference, err)
	}

	if result.Tone == "" && result.Sentiment == "" && result.Tweet == "" && len(result.KeyTopics) == 0 {
		return nil, fmt.Errorf("%w: empty inference object", entities.ErrUnparsableInference)
	}

	if len(result.KeyTopics) > entities.MaxKeyTopics {
		result.KeyTopics = result.KeyTopics[:entities.MaxKeyTopics]
	}

	return &result, nil
}

// extractJSON pulls the outermost JSON object out of a model response,
// stripping markdown code fences and surrounding prose
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
