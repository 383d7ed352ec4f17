package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// runLookup dispatches a retrieval verdict to the target-appropriate search
// endpoint and installs the flattened matches as the search view. Lookups
// are immediate, non-cancellable and single-shot.
func (c *Coordinator) runLookup(generation uint64, intent domain.ParsedIntent) {
	view, err := c.lookup(context.Background(), intent)

	if !c.isCurrent(generation) {
		c.logger.Debug("discarding stale lookup result")
		return
	}

	if err != nil {
		c.logger.Warn("lookup failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeLookup, err.Error())
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonLookupFailed)
		return
	}

	c.projection.setSearchView(view)
	c.events.SearchViewChanged(view)
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonLookupComplete)
}

func (c *Coordinator) lookup(ctx context.Context, intent domain.ParsedIntent) (*domain.SearchView, error) {
	if intent.Target == domain.TargetHabit {
		results, err := c.habits.Search(ctx, intent.Habits)
		if err != nil {
			return nil, err
		}
		// matches are flattened in endpoint order, duplicates included
		var matches []domain.Habit
		for _, result := range results {
			matches = append(matches, result.Matches...)
		}
		return &domain.SearchView{
			Kind:    domain.SearchViewLookup,
			Habits:  matches,
			Message: lookupSummary(len(matches)),
		}, nil
	}

	results, err := c.inventory.Search(ctx, intent.Items)
	if err != nil {
		return nil, err
	}
	var matches []domain.Item
	for _, result := range results {
		matches = append(matches, result.Matches...)
	}
	return &domain.SearchView{
		Kind:    domain.SearchViewLookup,
		Items:   matches,
		Message: lookupSummary(len(matches)),
	}, nil
}

func lookupSummary(count int) string {
	if count == 0 {
		return "no matches"
	}
	return fmt.Sprintf("found %d records", count)
}
