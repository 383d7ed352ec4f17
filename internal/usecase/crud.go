package usecase

import (
	"context"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// Manual CRUD pass-throughs for the list/edit forms. Each confirms with the
// remote collection first and reconciles the mirror afterwards; no
// optimistic local mutation.

func (c *Coordinator) DeleteInventoryItem(ctx context.Context, id string) (string, error) {
	message, err := c.inventory.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	if err := c.RefreshInventory(ctx); err != nil {
		c.logger.Warn("inventory refresh after delete failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeRefresh, err.Error())
	}
	return message, nil
}

func (c *Coordinator) EditInventoryItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	updated, err := c.inventory.Edit(ctx, item)
	if err != nil {
		return domain.Item{}, err
	}
	if err := c.RefreshInventory(ctx); err != nil {
		c.logger.Warn("inventory refresh after edit failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeRefresh, err.Error())
	}
	return updated, nil
}

func (c *Coordinator) DeleteHabit(ctx context.Context, name string) (string, error) {
	message, err := c.habits.Delete(ctx, name)
	if err != nil {
		return "", err
	}
	if err := c.RefreshHabits(ctx); err != nil {
		c.logger.Warn("habit refresh after delete failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeRefresh, err.Error())
	}
	return message, nil
}

func (c *Coordinator) EditHabit(ctx context.Context, habit domain.Habit) (domain.Habit, error) {
	updated, err := c.habits.Edit(ctx, habit)
	if err != nil {
		return domain.Habit{}, err
	}
	if err := c.RefreshHabits(ctx); err != nil {
		c.logger.Warn("habit refresh after edit failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeRefresh, err.Error())
	}
	return updated, nil
}
