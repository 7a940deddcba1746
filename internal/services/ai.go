package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// SuggestedAssignment is one draft row extracted from free-text planning
// notes. Drafts are suggestions only; the supervisor confirms them through
// the normal assignment flow, conflicts and all.
type SuggestedAssignment struct {
	ProjectName string     `json:"project_name"`
	WorkerNames []string   `json:"worker_names"`
	StartTs     *time.Time `json:"start_ts"`
	EndTs       *time.Time `json:"end_ts"`
	Note        string     `json:"note"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestAssignmentsFromText extracts structured assignment drafts from
// free-text planning notes using OpenAI GPT
func (s *AIService) SuggestAssignmentsFromText(ctx context.Context, text string) ([]SuggestedAssignment, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().UTC().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a scheduling assistant for a construction company. Extract proposed work assignments from the text below.

Current time (UTC): %s

Text:
%s

Return a JSON array of assignments in this exact shape:
[
  {
    "project_name": "name of the project or site",
    "worker_names": ["names of the workers mentioned"],
    "start_ts": "start as ISO8601, e.g. 2025-06-10T08:00:00Z, or null if not stated",
    "end_ts": "end as ISO8601, or null if not stated",
    "note": "any extra instructions mentioned"
  }
]

Rules:
- Return an empty array [] if the text contains no assignments
- Convert relative times ("tomorrow morning", "next Monday") to concrete UTC timestamps
- start_ts and end_ts must be ISO8601 strings or null
- Return only the JSON, no explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestions []SuggestedAssignment
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return suggestions, nil
}
