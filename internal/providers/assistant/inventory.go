package assistant

import (
	"context"
	"fmt"
	"net/http"

	"homevoice/internal/domain"
)

// InventoryAPI implements ports.InventoryService.
type InventoryAPI struct {
	client *Client
}

// Search queries the inventory by name hints, one result group per query.
func (a *InventoryAPI) Search(ctx context.Context, hints []domain.Item) ([]domain.SearchResult, error) {
	var envelope struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Results []domain.SearchResult `json:"results"`
	}
	request := map[string]any{"items": hints}
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/inventory/search", request, &envelope); err != nil {
		return nil, fmt.Errorf("inventory search failed: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("inventory search failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Results, nil
}

// Update applies a parsed change set to the inventory.
func (a *InventoryAPI) Update(ctx context.Context, items []domain.Item) (domain.UpdateOutcome, error) {
	var envelope struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Changes []domain.ChangeEntry `json:"changes"`
		Items   []domain.Item        `json:"items"`
	}
	request := map[string]any{"items": items}
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/inventory/update", request, &envelope); err != nil {
		return domain.UpdateOutcome{}, fmt.Errorf("inventory update failed: %w", err)
	}
	if !envelope.Success {
		return domain.UpdateOutcome{}, fmt.Errorf("inventory update failed: %s", orUnknown(envelope.Message))
	}
	return domain.UpdateOutcome{
		Changes: envelope.Changes,
		Items:   envelope.Items,
		Message: envelope.Message,
	}, nil
}

// List fetches the full inventory collection.
func (a *InventoryAPI) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := a.client.doJSON(ctx, http.MethodGet, "/api/inventory", nil, &items); err != nil {
		return nil, fmt.Errorf("inventory list failed: %w", err)
	}
	return items, nil
}

// Delete removes one item by id and returns the endpoint message.
func (a *InventoryAPI) Delete(ctx context.Context, id string) (string, error) {
	var envelope struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		DeletedID string `json:"deleted_id"`
	}
	request := map[string]string{"id": id}
	if err := a.client.doJSON(ctx, http.MethodDelete, "/api/inventory", request, &envelope); err != nil {
		return "", fmt.Errorf("inventory delete failed: %w", err)
	}
	if !envelope.Success {
		return "", fmt.Errorf("inventory delete failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Message, nil
}

// Edit updates one item and returns the stored entity.
func (a *InventoryAPI) Edit(ctx context.Context, item domain.Item) (domain.Item, error) {
	var envelope struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Item    domain.Item `json:"item"`
	}
	if err := a.client.doJSON(ctx, http.MethodPut, "/api/inventory", item, &envelope); err != nil {
		return domain.Item{}, fmt.Errorf("inventory edit failed: %w", err)
	}
	if !envelope.Success {
		return domain.Item{}, fmt.Errorf("inventory edit failed: %s", orUnknown(envelope.Message))
	}
	return envelope.Item, nil
}
