// Package assistant is the HTTP JSON client for the remote assistant
// backend: classification, collection search/update, list/delete/edit and
// meal plan suggestions.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// Config controls the assistant API connection.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the shared transport. It implements ports.Classifier and
// ports.MealPlanner directly; Inventory() and Habits() expose the
// per-collection services.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Inventory returns the inventory collection service.
func (c *Client) Inventory() *InventoryAPI {
	return &InventoryAPI{client: c}
}

// Habits returns the habit collection service.
func (c *Client) Habits() *HabitAPI {
	return &HabitAPI{client: c}
}

// Classify interprets one finalized utterance.
func (c *Client) Classify(ctx context.Context, text string) (domain.ParsedIntent, error) {
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Target    domain.Target     `json:"target"`
			Retrieval bool              `json:"retrieval"`
			Items     []json.RawMessage `json:"items"`
		} `json:"data"`
	}

	request := map[string]string{"text": text}
	if err := c.doJSON(ctx, http.MethodPost, "/api/voice/process", request, &envelope); err != nil {
		return domain.ParsedIntent{}, fmt.Errorf("classification failed: %w", err)
	}
	if !envelope.Success {
		return domain.ParsedIntent{}, fmt.Errorf("classification failed: %s", orUnknown(envelope.Message))
	}

	intent := domain.ParsedIntent{
		Target:    envelope.Data.Target,
		Retrieval: envelope.Data.Retrieval,
		Message:   envelope.Message,
	}

	// item shape varies by target
	for _, raw := range envelope.Data.Items {
		if intent.Target == domain.TargetHabit {
			var habit domain.Habit
			if err := json.Unmarshal(raw, &habit); err != nil {
				return domain.ParsedIntent{}, fmt.Errorf("classification failed: malformed habit item: %w", err)
			}
			intent.Habits = append(intent.Habits, habit)
			continue
		}
		var item domain.Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return domain.ParsedIntent{}, fmt.Errorf("classification failed: malformed item: %w", err)
		}
		intent.Items = append(intent.Items, item)
	}

	return intent, nil
}

// Suggest fetches meal plan recommendations for the current inventory.
func (c *Client) Suggest(ctx context.Context) (domain.MealPlan, error) {
	var envelope struct {
		Success     bool                    `json:"success"`
		Message     string                  `json:"message"`
		Suggestions []domain.MealSuggestion `json:"suggestions"`
		Summary     string                  `json:"summary"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/mealplan", nil, &envelope); err != nil {
		return domain.MealPlan{}, fmt.Errorf("meal plan failed: %w", err)
	}
	if !envelope.Success {
		return domain.MealPlan{}, fmt.Errorf("meal plan failed: %s", orUnknown(envelope.Message))
	}
	return domain.MealPlan{Suggestions: envelope.Suggestions, Summary: envelope.Summary}, nil
}

// doJSON issues one request and decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		c.logger.Warn("assistant request rejected",
			zap.String("path", path),
			zap.Int("status", response.StatusCode),
		)
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func orUnknown(message string) string {
	if strings.TrimSpace(message) == "" {
		return "unknown error"
	}
	return message
}
