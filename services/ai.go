package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	groqModel    = "llama-3.3-70b-versatile"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIClient is the external LLM collaborator behind the chat assistant.
type AIClient interface {
	Chat(ctx context.Context, messages []ChatTurn) (string, error)
}

// GroqClient talks to the Groq OpenAI-compatible chat completion API.
type GroqClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewGroqClient() *GroqClient {
	return &GroqClient{
		apiKey:   os.Getenv("GROQ_API_KEY"),
		endpoint: groqEndpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

type groqRequest struct {
	Messages    []ChatTurn `json:"messages"`
	Model       string     `json:"model"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"max_tokens"`
	TopP        float64    `json:"top_p"`
	Stream      bool       `json:"stream"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GroqClient) Chat(ctx context.Context, messages []ChatTurn) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("AI service not configured: GROQ_API_KEY is missing")
	}

	body, err := json.Marshal(groqRequest{
		Messages:    messages,
		Model:       groqModel,
		Temperature: 0.7,
		MaxTokens:   2048,
		TopP:        1,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI service error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limit exceeded, please wait a moment and try again")
	}

	var parsed groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("AI service error: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("AI service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "I understand your question, but I need more context to provide a helpful answer. Could you please provide more details or clarify what you'd like help with?", nil
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// SystemPrompt is the assistant persona sent as the first chat turn.
func SystemPrompt() string {
	return "You're StudyMate AI - a smart study buddy for university students. " +
		"Break down course material into clear notes, create quizzes that test understanding, " +
		"explain tough concepts simply, and help students plan what to study and when. " +
		"Be conversational and direct, explain WHY things work, and adapt to how the student talks."
}
