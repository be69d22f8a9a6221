package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// parseRequest is the request body for POST /api/agent/parse.
type parseRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const commandSystemPrompt = `You are the logging assistant of a calorie tracker. Turn the user's message into exactly one JSON object with a "type" field:
- "food": {"type":"food","items":[{"description":string,"calories":integer,"protein":number}]}
- "exercise": {"type":"exercise","items":[{"description":string,"calories":integer}]} (calories burned, positive)
- "weight": {"type":"weight","weight":number} (kilograms)
- "edit": {"type":"edit","search":string,"update":{"calories"?:integer,"protein"?:number,"description"?:string}}
- "multi_edit": {"type":"multi_edit","edits":[{"search":string,"update":{...}}]}
- "delete": {"type":"delete","search":string}
- "meal_recommendation", "activity_suggestion", "cheat_calculation", "chat": {"type":...,"message":string}
"search" is a short word that appears in the description of the entry to change.
If you cannot interpret the message, return {"type":"chat","is_error":true,"message":"<why>"}.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is one chat message.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is a chat completions request body.
type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// agentClient talks to an OpenAI-compatible chat completions endpoint.
type agentClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newAgentClient(baseURL, apiKey string) *agentClient {
	return &agentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// complete sends a chat completions request and returns the raw content
// string from the first choice.
func (a *agentClient) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

// parseCommand asks the model to turn text into a tagged-union command.
func (a *agentClient) parseCommand(ctx context.Context, text string) (Command, error) {
	content, err := a.complete(ctx, []openAIMessage{
		{Role: "system", Content: commandSystemPrompt},
		{Role: "user", Content: text},
	})
	if err != nil {
		return nil, err
	}
	return decodeCommand([]byte(content))
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// parseAndApply handles POST /api/agent/parse. The free text goes to the
// model; whatever command comes back is applied to the given day.
func (h *Handler) parseAndApply(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}

	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apiError(c, http.StatusBadRequest, "text is required")
		return
	}
	date, err := u.dateParam(req.Date)
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}

	cmd, err := h.agent.parseCommand(c.Request.Context(), req.Text)
	if err != nil {
		log.Printf("[agent] parse error: %v", err)
		apiError(c, http.StatusBadGateway, "could not interpret message")
		return
	}

	h.respondApplied(c, date, cmd)
}
