package gemini

import "lifelayer/relay/pkg/providers"

// Gemini API request/response types

// Request represents a Gemini generateContent request.
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content represents one conversation turn in Gemini format.
// Roles are "user" and "model".
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part represents a content part. Only text parts are used here.
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig carries sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// Response represents a Gemini generateContent response. The same shape is
// used for each SSE chunk of a streaming response.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate represents one generated candidate.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Synthetic system exchange inserted ahead of the real history.
const (
	systemLabel   = "System instructions: "
	systemAckText = "I understand. I will follow these instructions."
)

// buildContents translates the conversation to Gemini format.
//
// A non-empty systemPrompt produces exactly two synthetic leading turns:
// a user turn with the labeled instructions and a model acknowledgment.
// User messages keep the "user" role; every other role maps to "model"
// (Gemini accepts no other roles).
func buildContents(messages []providers.ChatMessage, systemPrompt string) []Content {
	contents := make([]Content, 0, len(messages)+2)

	if systemPrompt != "" {
		contents = append(contents,
			Content{
				Role:  "user",
				Parts: []Part{{Text: systemLabel + systemPrompt}},
			},
			Content{
				Role:  "model",
				Parts: []Part{{Text: systemAckText}},
			},
		)
	}

	for _, msg := range messages {
		role := "model"
		if msg.Role == providers.RoleUser {
			role = "user"
		}
		contents = append(contents, Content{
			Role:  role,
			Parts: []Part{{Text: msg.Content}},
		})
	}

	return contents
}

// candidateText extracts the concatenated text parts of the first candidate.
func candidateText(resp *Response) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text
}
