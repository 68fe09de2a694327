package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("ai client not configured")

const (
	DefaultRootURL = "https://api.perplexity.ai"
	DefaultModel   = "sonar-pro"
)

type Client struct {
	RootURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(rootURL string, apiKey string, model string, timeout time.Duration) *Client {
	if rootURL == "" {
		rootURL = DefaultRootURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		RootURL: rootURL,
		APIKey:  apiKey,
		Model:   model,
		Timeout: timeout,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single system + user prompt pair to the chat
// completions endpoint and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, systemPrompt string, prompt string) (string, error) {
	if c == nil || c.APIKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := chatCompletionReq{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	}
	json_data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RootURL+"/chat/completions", bytes.NewBuffer(json_data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorText, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ai service error %d: %s", resp.StatusCode, string(errorText))
	}

	var data chatCompletionResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", err
	}
	if len(data.Choices) < 1 || data.Choices[0].Message.Content == "" {
		return "", errors.New("no content returned from ai service")
	}
	return data.Choices[0].Message.Content, nil
}

// ExtractJSONObject pulls the first JSON object out of a model response,
// tolerating surrounding prose or markdown code fences.
func ExtractJSONObject(text string, target interface{}) error {
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart != -1 && jsonEnd != -1 && jsonEnd > jsonStart {
		text = text[jsonStart : jsonEnd+1]
	}
	return json.Unmarshal([]byte(text), target)
}

const draftDescriptionSystemPrompt = "You are an assistant for a task tracking tool. " +
	"Write a short, actionable task description for the given task title. " +
	"Respond with the description text only, no preamble."

func (c *Client) DraftTaskDescription(ctx context.Context, title string) (string, error) {
	return c.Complete(ctx, draftDescriptionSystemPrompt, title)
}

const improveTextSystemPrompt = "You are an assistant for a task tracking tool. " +
	"Rewrite the given text so it is clear and concise while keeping its meaning. " +
	"Respond with the rewritten text only."

func (c *Client) ImproveText(ctx context.Context, text string) (string, error) {
	return c.Complete(ctx, improveTextSystemPrompt, text)
}
