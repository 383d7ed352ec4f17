package usecase

import (
	"context"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// classify hands finalized text to the remote classifier and dispatches the
// verdict: retrieval runs an immediate lookup, a write arms the auto-commit
// countdown. Completions of a superseded generation are discarded.
func (c *Coordinator) classify(generation uint64, text string) {
	intent, err := c.classifier.Classify(context.Background(), text)

	if !c.isCurrent(generation) {
		c.logger.Debug("discarding stale classification result")
		return
	}

	if err != nil {
		c.logger.Warn("classification failed", zap.Error(err))
		c.events.SessionError(domain.ErrorCodeClassification, err.Error())
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonClassificationFailed)
		return
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	stored := intent
	c.lastIntent = &stored
	c.mu.Unlock()

	c.logger.Info("verdict received",
		zap.String("target", string(intent.Target)),
		zap.Bool("retrieval", intent.Retrieval),
	)
	c.events.VerdictReceived(intent)

	if intent.Retrieval {
		c.runLookup(generation, intent)
		return
	}
	c.armCountdown(generation, intent)
}
