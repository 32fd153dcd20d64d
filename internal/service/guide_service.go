package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/civitas-dev/remote-visit-service/internal/config"
	"github.com/civitas-dev/remote-visit-service/internal/directory"
	apperrors "github.com/civitas-dev/remote-visit-service/pkg/util"
)

// ChatMessage is one turn of a guide conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GuideReply is the assistant's answer plus the extracted routing decision.
type GuideReply struct {
	Content      string  `json:"content"`
	DepartmentID *string `json:"department_id,omitempty"`
	Confidence   *string `json:"confidence,omitempty"`
}

// GuideService proxies visitor conversations to a chat-completion backend
// primed with the department directory, and pulls the routing block out of
// the assistant's reply.
type GuideService struct {
	cfg    config.AssistantConfig
	client *http.Client
}

// NewGuideService constructs the service.
func NewGuideService(cfg config.AssistantConfig) *GuideService {
	return &GuideService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Chat forwards the conversation to the assistant backend.
func (s *GuideService) Chat(ctx context.Context, messages []ChatMessage) (*GuideReply, error) {
	if s.cfg.Token == "" {
		return nil, apperrors.NewUnavailable("guide assistant not configured")
	}
	if len(messages) == 0 {
		return nil, apperrors.NewValidationError("messages required", nil)
	}

	payload := chatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    append([]ChatMessage{{Role: "system", Content: buildSystemPrompt()}}, messages...),
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailable("guide assistant unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewUnavailable(fmt.Sprintf("guide assistant returned status %d", resp.StatusCode))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, apperrors.NewUnavailable("guide assistant returned no choices")
	}

	reply := &GuideReply{Content: completion.Choices[0].Message.Content}
	if dept, confidence, ok := extractRouting(reply.Content); ok {
		reply.DepartmentID = &dept
		reply.Confidence = &confidence
	}
	return reply, nil
}

// buildSystemPrompt primes the assistant with the counter directory and the
// routing output contract.
func buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are the city hall's information desk assistant. Listen to the visitor and guide them to the right counter.\n\n")
	sb.WriteString("## Counters\n")
	for _, d := range directory.All() {
		sb.WriteString(fmt.Sprintf("- ID: %q | %s (%s, %s)\n  Handles: %s\n  Keywords: %s\n",
			d.ID, d.Name, d.Floor, d.Counter, d.Description, strings.Join(d.Keywords, ", ")))
	}
	sb.WriteString("\n## Rules\n")
	sb.WriteString("1. When a visitor's message matches a counter's keywords, guide them there immediately.\n")
	sb.WriteString("2. If several counters apply, pick the single most relevant one.\n")
	sb.WriteString("3. When guiding to a counter, end the reply with this JSON block, using the counter ID verbatim:\n\n")
	sb.WriteString("```json\n{\"department_id\": \"<counter id>\", \"confidence\": \"high\"}\n```\n")
	return sb.String()
}

var routingBlockPattern = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// extractRouting pulls the trailing routing JSON block out of an assistant
// reply. Only department ids present in the directory are accepted.
func extractRouting(content string) (departmentID, confidence string, ok bool) {
	matches := routingBlockPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	var block struct {
		DepartmentID string `json:"department_id"`
		Confidence   string `json:"confidence"`
	}
	raw := matches[len(matches)-1][1]
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		return "", "", false
	}
	if !directory.Exists(block.DepartmentID) {
		return "", "", false
	}
	return block.DepartmentID, block.Confidence, true
}
