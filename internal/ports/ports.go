package ports

import (
	"context"
	"errors"

	"homevoice/internal/domain"
)

// ErrCapabilityUnavailable reports that no speech engine is configured or
// reachable. Fatal to voice input only; typed text entry still works.
var ErrCapabilityUnavailable = errors.New("speech recognition capability is unavailable")

// RecognitionConfig describes how a capture session should be recognized.
type RecognitionConfig struct {
	Language       string
	InterimResults bool
}

// RecognitionSession is one live capture session on the speech engine.
// Events are delivered strictly in engine order: started, zero or more
// results, then ended or error. The channel closes when the session ends.
type RecognitionSession interface {
	Events() <-chan domain.RecognitionEvent
	Stop() error
	Close() error
}

// RecognitionEngine starts capture sessions on the external speech
// capability.
type RecognitionEngine interface {
	Start(ctx context.Context, cfg RecognitionConfig) (RecognitionSession, error)
}

// Classifier interprets one finalized utterance.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.ParsedIntent, error)
}

// InventoryService is the remote inventory collection.
type InventoryService interface {
	Search(ctx context.Context, hints []domain.Item) ([]domain.SearchResult, error)
	Update(ctx context.Context, items []domain.Item) (domain.UpdateOutcome, error)
	List(ctx context.Context) ([]domain.Item, error)
	Delete(ctx context.Context, id string) (string, error)
	Edit(ctx context.Context, item domain.Item) (domain.Item, error)
}

// HabitService is the remote habit collection.
type HabitService interface {
	Search(ctx context.Context, hints []domain.Habit) ([]domain.HabitSearchResult, error)
	Update(ctx context.Context, habits []domain.Habit) (domain.UpdateOutcome, error)
	List(ctx context.Context) ([]domain.Habit, error)
	Delete(ctx context.Context, name string) (string, error)
	Edit(ctx context.Context, habit domain.Habit) (domain.Habit, error)
}

// MealPlanner produces meal suggestions from the current inventory.
type MealPlanner interface {
	Suggest(ctx context.Context) (domain.MealPlan, error)
}

// EventSink emits backend state and results to the UI.
type EventSink interface {
	StateChanged(state domain.CaptureState, reason domain.StateReason)
	PartialTranscript(mode domain.CaptureMode, text string)
	VerdictReceived(intent domain.ParsedIntent)
	CountdownTick(remaining int)
	SearchViewChanged(view *domain.SearchView)
	InventoryChanged(items []domain.Item)
	HabitsChanged(habits []domain.Habit)
	SessionError(code domain.ErrorCode, detail string)
}
