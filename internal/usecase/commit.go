package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// executeCommit dispatches the armed intent to the target-appropriate
// update endpoint and folds the result into projection state. Mirrors are
// never updated optimistically; a failed commit leaves them untouched.
func (c *Coordinator) executeCommit(generation uint64, intent domain.ParsedIntent) {
	if intent.Target == domain.TargetHabit {
		c.commitHabits(generation, intent)
		return
	}
	c.commitInventory(generation, intent)
}

func (c *Coordinator) commitInventory(generation uint64, intent domain.ParsedIntent) {
	outcome, err := c.inventory.Update(context.Background(), intent.Items)

	// the background refresh self-heals mirror drift and fires after every
	// inventory commit, independent of the success path
	defer func() { go c.reconcileInventory(generation) }()

	if !c.isCurrent(generation) {
		c.logger.Debug("discarding stale inventory commit result")
		return
	}
	if err != nil {
		c.logger.Warn("inventory commit failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeCommit, err.Error())
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCommitFailed)
		return
	}

	// the endpoint's own result set is surfaced, not the full mirror, so
	// the user sees exactly what changed
	view := &domain.SearchView{
		Kind:    domain.SearchViewCommitResult,
		Items:   outcome.Items,
		Message: commitSummary(intent.Target, len(outcome.Items), outcome.Message),
	}
	c.projection.setSearchView(view)
	c.events.SearchViewChanged(view)
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCommitApplied)
}

func (c *Coordinator) commitHabits(generation uint64, intent domain.ParsedIntent) {
	outcome, err := c.habits.Update(context.Background(), intent.Habits)

	if !c.isCurrent(generation) {
		c.logger.Debug("discarding stale habit commit result")
		return
	}
	if err != nil {
		c.logger.Warn("habit commit failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeCommit, err.Error())
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCommitFailed)
		return
	}

	// the habit endpoint returns the full collection when available
	if outcome.Habits != nil {
		c.projection.setHabits(outcome.Habits)
		c.events.HabitsChanged(outcome.Habits)
	}

	view := &domain.SearchView{
		Kind:    domain.SearchViewCommitResult,
		Habits:  outcome.Habits,
		Message: commitSummary(intent.Target, len(outcome.Habits), outcome.Message),
	}
	c.projection.setSearchView(view)
	c.events.SearchViewChanged(view)
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCommitApplied)
}

// reconcileInventory refreshes the inventory mirror after a commit. Results
// belonging to a superseded generation are dropped.
func (c *Coordinator) reconcileInventory(generation uint64) {
	items, err := c.inventory.List(context.Background())

	if !c.isCurrent(generation) {
		return
	}
	if err != nil {
		c.logger.Warn("inventory refresh failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeRefresh, err.Error())
		return
	}
	c.projection.setInventory(items)
	c.events.InventoryChanged(items)
}

func commitSummary(target domain.Target, count int, fallback string) string {
	if count > 0 {
		if target == domain.TargetHabit {
			return fmt.Sprintf("updated %d habits", count)
		}
		return fmt.Sprintf("updated %d items", count)
	}
	if fallback != "" {
		return fallback
	}
	return "update applied"
}
