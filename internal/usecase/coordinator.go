package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homevoice/internal/domain"
	"homevoice/internal/ports"
)

var (
	// ErrCaptureActive is returned when a capture session is already
	// recording. The in-progress transcript is left untouched.
	ErrCaptureActive = errors.New("a capture session is already active")

	// ErrNoActiveCapture is returned when no capture session is recording.
	ErrNoActiveCapture = errors.New("no active capture session")
)

// Config controls session lifecycle behavior.
type Config struct {
	Recognition      ports.RecognitionConfig
	CaptureTimeout   time.Duration
	CountdownSeconds int
	TickInterval     time.Duration
}

// Coordinator orchestrates capture sessions, classification, lookup routing
// and the auto-commit countdown. It is the single writer of session,
// countdown and projection state.
type Coordinator struct {
	engine     ports.RecognitionEngine
	classifier ports.Classifier
	inventory  ports.InventoryService
	habits     ports.HabitService
	events     ports.EventSink
	logger     *zap.Logger
	cfg        Config

	mu         sync.Mutex
	generation uint64
	capture    *activeCapture
	countdown  *commitCountdown
	lastIntent *domain.ParsedIntent
	language   string

	projection *projectionState
}

func NewCoordinator(
	engine ports.RecognitionEngine,
	classifier ports.Classifier,
	inventory ports.InventoryService,
	habits ports.HabitService,
	events ports.EventSink,
	logger *zap.Logger,
	cfg Config,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = 30 * time.Second
	}
	if cfg.CountdownSeconds <= 0 {
		cfg.CountdownSeconds = 5
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Coordinator{
		engine:     engine,
		classifier: classifier,
		inventory:  inventory,
		habits:     habits,
		events:     events,
		logger:     logger,
		cfg:        cfg,
		language:   cfg.Recognition.Language,
		projection: newProjectionState(),
	}
}

// BeginCapture starts a new capture session in the given mode. Fails with
// ErrCaptureActive while a session is recording; the in-progress transcript
// is not reset in that case.
func (c *Coordinator) BeginCapture(ctx context.Context, mode domain.CaptureMode) error {
	c.mu.Lock()
	if c.capture != nil && !c.capture.isFinished() {
		c.mu.Unlock()
		return ErrCaptureActive
	}
	gen := c.nextGenerationLocked()
	recognition := c.cfg.Recognition
	recognition.Language = c.language
	c.mu.Unlock()

	// a fresh capture clears any prior verdict/search overlay
	c.projection.clearSearchView()
	c.events.SearchViewChanged(nil)

	session, err := c.engine.Start(ctx, recognition)
	if err != nil {
		if errors.Is(err, ports.ErrCapabilityUnavailable) {
			c.events.SessionError(domain.ErrorCodeCapability, err.Error())
			return err
		}
		// the engine refuses double starts on its own; report as
		// already-active instead of propagating
		c.events.SessionError(domain.ErrorCodeCapture, err.Error())
		return ErrCaptureActive
	}

	capture := &activeCapture{
		id:         uuid.NewString(),
		generation: gen,
		mode:       mode,
		session:    session,
		done:       make(chan struct{}),
		state:      domain.CaptureStateRecording,
	}
	capture.timeout = time.AfterFunc(c.cfg.CaptureTimeout, func() {
		c.expireCapture(capture)
	})

	c.mu.Lock()
	c.capture = capture
	c.mu.Unlock()

	c.logger.Info("capture started",
		zap.String("capture_id", capture.id),
		zap.String("mode", string(mode)),
	)
	c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonRecordingStarted)

	go c.consumeRecognitionEvents(capture)
	return nil
}

// EndCapture requests the engine to stop the active session. Finalization
// happens when the engine delivers its end notification.
func (c *Coordinator) EndCapture(reason domain.StateReason) error {
	c.mu.Lock()
	capture := c.capture
	c.mu.Unlock()

	if capture == nil || capture.isFinished() {
		return ErrNoActiveCapture
	}
	if reason == "" {
		reason = domain.ReasonManualStop
	}
	c.events.StateChanged(domain.CaptureStateRecording, reason)
	return capture.session.Stop()
}

// SubmitText feeds manually typed text into the classification path.
// Accepted only while no capture session is recording; blank text never
// reaches the classifier.
func (c *Coordinator) SubmitText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonNoContent)
		return nil
	}

	c.mu.Lock()
	if c.capture != nil && !c.capture.isFinished() {
		c.mu.Unlock()
		return ErrCaptureActive
	}
	gen := c.nextGenerationLocked()
	c.mu.Unlock()

	c.projection.clearSearchView()
	c.events.SearchViewChanged(nil)
	c.events.StateChanged(domain.CaptureStateFinalizing, domain.ReasonClassifying)

	go c.classify(gen, trimmed)
	return nil
}

// ReturnToDefaultView clears the transient search overlay; the persisted
// collection mirrors are left unchanged.
func (c *Coordinator) ReturnToDefaultView() {
	c.projection.clearSearchView()
	c.events.SearchViewChanged(nil)
}

// SetLanguage switches the recognition language for subsequent sessions.
func (c *Coordinator) SetLanguage(language string) {
	language = strings.TrimSpace(language)
	if language == "" {
		return
	}
	c.mu.Lock()
	c.language = language
	c.mu.Unlock()
}

// Language returns the current recognition language.
func (c *Coordinator) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Status returns a snapshot of the session for the frontend.
func (c *Coordinator) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := domain.Status{State: domain.CaptureStateIdle}
	if c.capture != nil && !c.capture.isFinished() {
		status.State = c.capture.currentState()
		status.Mode = c.capture.mode
		status.Active = true
		status.Transcript = c.capture.transcriptSnapshot()
	}
	if c.countdown != nil && !c.countdown.isCancelled() {
		status.PendingCommit = true
		status.Countdown = c.countdown.remainingSeconds()
	}
	return status
}

// LastIntent returns the most recent classification verdict, kept visible
// for manual correction after a cancelled countdown.
func (c *Coordinator) LastIntent() *domain.ParsedIntent {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastIntent == nil {
		return nil
	}
	intent := *c.lastIntent
	return &intent
}

// Inventory returns the current inventory mirror.
func (c *Coordinator) Inventory() []domain.Item {
	return c.projection.inventorySnapshot()
}

// Habits returns the current habit mirror.
func (c *Coordinator) Habits() []domain.Habit {
	return c.projection.habitsSnapshot()
}

// SearchView returns the transient result overlay, nil when the default
// view is visible.
func (c *Coordinator) SearchView() *domain.SearchView {
	return c.projection.searchViewSnapshot()
}

// RefreshInventory reloads the inventory mirror from the remote collection.
func (c *Coordinator) RefreshInventory(ctx context.Context) error {
	items, err := c.inventory.List(ctx)
	if err != nil {
		return err
	}
	c.projection.setInventory(items)
	c.events.InventoryChanged(items)
	return nil
}

// RefreshHabits reloads the habit mirror from the remote collection.
func (c *Coordinator) RefreshHabits(ctx context.Context) error {
	habits, err := c.habits.List(ctx)
	if err != nil {
		return err
	}
	c.projection.setHabits(habits)
	c.events.HabitsChanged(habits)
	return nil
}

// nextGenerationLocked supersedes all outstanding async work: any pending
// countdown is invalidated and late completions of the prior generation are
// discarded. Callers must hold c.mu.
func (c *Coordinator) nextGenerationLocked() uint64 {
	c.generation++
	if c.countdown != nil {
		c.countdown.cancel()
		c.countdown = nil
	}
	c.lastIntent = nil
	return c.generation
}

func (c *Coordinator) isCurrent(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation == c.generation
}
