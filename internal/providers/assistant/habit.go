package assistant

import (
	"context"
	"fmt"
	"net/http"

	"homevoice/internal/domain"
)

// HabitAPI implements ports.HabitService. Habits are keyed by name.
type HabitAPI struct {
	client *Client
}

// Search queries the habit list by name hints.
func (a *HabitAPI) Search(ctx context.Context, hints []domain.Habit) ([]domain.HabitSearchResult, error) {
	var envelope struct {
		Success bool                       `json:"success"`
		Message string                     `json:"message"`
		Results []domain.HabitSearchResult `json:"results"`
	}
	request := map[string]any{"items": hints}
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/habits/search", request, &envelope); err != nil {
		return nil, fmt.Errorf("habit search failed: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("habit search failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Results, nil
}

// Update applies a parsed change set; the response habits field is the full
// collection when the endpoint supplies it.
func (a *HabitAPI) Update(ctx context.Context, habits []domain.Habit) (domain.UpdateOutcome, error) {
	var envelope struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Changes []domain.ChangeEntry `json:"changes"`
		Habits  []domain.Habit       `json:"habits"`
	}
	request := map[string]any{"items": habits}
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/habits/update", request, &envelope); err != nil {
		return domain.UpdateOutcome{}, fmt.Errorf("habit update failed: %w", err)
	}
	if !envelope.Success {
		return domain.UpdateOutcome{}, fmt.Errorf("habit update failed: %s", orUnknown(envelope.Message))
	}
	return domain.UpdateOutcome{
		Changes: envelope.Changes,
		Habits:  envelope.Habits,
		Message: envelope.Message,
	}, nil
}

// List fetches the full habit collection.
func (a *HabitAPI) List(ctx context.Context) ([]domain.Habit, error) {
	var habits []domain.Habit
	if err := a.client.doJSON(ctx, http.MethodGet, "/api/habits", nil, &habits); err != nil {
		return nil, fmt.Errorf("habit list failed: %w", err)
	}
	return habits, nil
}

// Delete removes one habit by name and returns the endpoint message.
func (a *HabitAPI) Delete(ctx context.Context, name string) (string, error) {
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	request := map[string]string{"name": name}
	if err := a.client.doJSON(ctx, http.MethodDelete, "/api/habits", request, &envelope); err != nil {
		return "", fmt.Errorf("habit delete failed: %w", err)
	}
	if !envelope.Success {
		return "", fmt.Errorf("habit delete failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Message, nil
}

// Edit updates one habit and returns the stored entity.
func (a *HabitAPI) Edit(ctx context.Context, habit domain.Habit) (domain.Habit, error) {
	var envelope struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Habit   domain.Habit `json:"habit"`
	}
	if err := a.client.doJSON(ctx, http.MethodPut, "/api/habits", habit, &envelope); err != nil {
		return domain.Habit{}, fmt.Errorf("habit edit failed: %w", err)
	}
	if !envelope.Success {
		return domain.Habit{}, fmt.Errorf("habit edit failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Habit, nil
}
