package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// model returns a fresh model handle; handles carry per-call settings such
// as the system instruction and must not be shared between requests.
func (c *GeminiClient) model(temperature float32, maxTokens int32) *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.modelName)
	m.SetTemperature(temperature)
	m.SetMaxOutputTokens(maxTokens)
	return m
}

// Complete replays history as a chat under the system instruction and
// returns the model's reply to the final user message. Any failure, including
// an empty reply, wraps domain.ErrLLMUnavailable.
func (c *GeminiClient) Complete(ctx context.Context, system string, history []*domain.ConversationMessage) (string, error) {
	contents, err := buildContents(history)
	if err != nil {
		return "", errors.Join(domain.ErrLLMUnavailable, err)
	}

	m := c.model(0.8, 500)
	m.SystemInstruction = genai.NewUserContent(genai.Text(system))

	session := m.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrLLMUnavailable)
	}
	return text, nil
}

// buildContents maps stored roles onto Gemini roles and merges consecutive
// turns of the same role, which the API rejects. The chat must open and
// close on a user turn, so model turns ahead of the first user message (a
// truncated history window) are dropped.
func buildContents(history []*domain.ConversationMessage) ([]*genai.Content, error) {
	var contents []*genai.Content
	for _, msg := range history {
		role := roleUser
		if msg.Role == domain.RoleAssistant {
			role = roleModel
		}
		if role == roleModel && len(contents) == 0 {
			continue
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(msg.Content))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}

	if len(contents) == 0 || contents[len(contents)-1].Role != roleUser {
		return nil, errors.New("conversation must end with a user message")
	}
	return contents, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}

func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, user1Interests, user2Interests []string) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 creative icebreaker messages for a dating app match.
		User 1 Interests: %v
		User 2 Interests: %v

		Task: Create 3 distinct opening lines that User 1 could send to User 2.
		Focus on shared interests or interesting contrasts.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, user1Interests, user2Interests)

	resp, err := c.model(0.9, 400).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: no content generated", domain.ErrLLMUnavailable)
	}
	return parseIcebreakers(text)
}

func parseIcebreakers(text string) ([]string, error) {
	// Clean up markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	if err := json.Unmarshal([]byte(text), &icebreakers); err != nil {
		// Fallback if JSON parsing fails - one icebreaker per line
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				icebreakers = append(icebreakers, line)
			}
		}
		if len(icebreakers) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}
	if len(icebreakers) == 0 {
		return nil, errors.New("no icebreakers generated")
	}
	return icebreakers, nil
}
