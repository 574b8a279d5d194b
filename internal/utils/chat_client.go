package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicMessagesURL = "https://api.anthropic.com/v1/messages"

const assistantSystemPrompt = `Tu es l'assistant virtuel de PANTOUFLES - Service Adhoc.

PANTOUFLES propose les services suivants :
- Ménage : nettoyage complet de l'intérieur
- Repassage : traitement soigné du linge
- Courses : achats selon les préférences du client
- Diététique : conseils nutritionnels adaptés
- Aide au repas : préparation et aide à la prise de repas

Zone de service : Limoges et alentours.

Ton rôle : répondre aux questions sur les services, expliquer comment ça
marche, donner des conseils utiles et diriger vers le formulaire
d'inscription si besoin. Sois toujours courtois, utile et bienveillant.`

// ChatClient proxies visitor messages to the Anthropic Messages API.
type ChatClient struct {
	apiKey string
	model  string
	http   *http.Client
}

func NewChatClient(apiKey, model string) *ChatClient {
	return &ChatClient{
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type chatResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Send forwards one user message and returns the assistant reply.
func (c *ChatClient) Send(ctx context.Context, message string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("chat assistant is not configured")
	}

	payload := chatRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    assistantSystemPrompt,
		Messages:  []chatMessage{{Role: "user", Content: message}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach chat provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("chat provider returned an empty reply")
	}

	return parsed.Content[0].Text, nil
}
