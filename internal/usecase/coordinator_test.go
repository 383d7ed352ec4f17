package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"homevoice/internal/domain"
	"homevoice/internal/ports"
)

func TestCaptureToInventoryCommitFlow(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target:    domain.TargetInventory,
		Retrieval: false,
		Items:     []domain.Item{{Name: "可乐", Quantity: 2, Unit: "瓶", Action: "ADD"}},
	}}}
	inventory := &fakeInventory{
		updateOutcome: domain.UpdateOutcome{
			Changes: []domain.ChangeEntry{{Type: "ADD", Name: "可乐", Desc: "新增 2 瓶"}},
			Items:   []domain.Item{{ID: "2", Name: "可乐", Quantity: 2, Unit: "瓶", Location: "冰箱"}},
		},
		listItems: []domain.Item{{ID: "1", Name: "现有库存"}, {ID: "2", Name: "可乐", Quantity: 2}},
	}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		classifier, inventory, &fakeHabits{}, events, Config{
			CountdownSeconds: 5,
			TickInterval:     time.Millisecond,
		})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionStarted})
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "买了两瓶可乐"})
	session.end()

	waitFor(t, func() bool { return inventory.updateCount() == 1 })

	sent := inventory.lastUpdate()
	if len(sent) != 1 || sent[0].Name != "可乐" || sent[0].Quantity != 2 || sent[0].Unit != "瓶" || sent[0].Action != "ADD" {
		t.Fatalf("unexpected committed items: %+v", sent)
	}

	waitFor(t, func() bool {
		view := c.SearchView()
		return view != nil && view.Kind == domain.SearchViewCommitResult
	})
	view := c.SearchView()
	if len(view.Items) != 1 || view.Items[0].Name != "可乐" {
		t.Fatalf("commit result view should show exactly the changed item, got %+v", view.Items)
	}
	if view.Message != "updated 1 items" {
		t.Fatalf("unexpected view message: %q", view.Message)
	}

	// the mirror reconciles from the unconditional background refresh
	waitFor(t, func() bool { return len(c.Inventory()) == 2 })

	if classifier.lastText() != "买了两瓶可乐" {
		t.Fatalf("unexpected classified text: %q", classifier.lastText())
	}
}

func TestOverTokenStopsRecordingBeforeTimeout(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target:    domain.TargetInventory,
		Retrieval: true,
		Items:     []domain.Item{{Name: "可乐"}},
	}}}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		classifier, &fakeInventory{}, &fakeHabits{}, events, Config{
			CaptureTimeout: time.Hour,
		})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "买了两瓶可乐 Over"})

	waitFor(t, func() bool { return session.stopCount() >= 1 })
	waitFor(t, func() bool { return events.hasReason(domain.ReasonOverDetected) })
	waitFor(t, func() bool { return classifier.callCount() == 1 })
}

func TestBeginWhileRecordingFailsWithoutResettingTranscript(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		&fakeClassifier{}, &fakeInventory{}, &fakeHabits{}, events, Config{
			CaptureTimeout: time.Hour,
		})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "进行中的内容"})
	waitFor(t, func() bool { return c.Status().Transcript == "进行中的内容" })

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); !errors.Is(err, ErrCaptureActive) {
		t.Fatalf("expected ErrCaptureActive, got %v", err)
	}
	if got := c.Status().Transcript; got != "进行中的内容" {
		t.Fatalf("transcript was reset: %q", got)
	}
}

func TestHardTimeoutStopsSession(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		&fakeClassifier{}, &fakeInventory{}, &fakeHabits{}, events, Config{
			CaptureTimeout: 10 * time.Millisecond,
		})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	waitFor(t, func() bool { return session.stopCount() >= 1 })
	waitFor(t, func() bool { return events.hasReason(domain.ReasonCaptureTimeout) })
	// empty transcript returns straight to idle without classification
	waitFor(t, func() bool { return events.hasReason(domain.ReasonNoContent) })
}

func TestInventoryLookupRoutesToInventoryEndpoint(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target:    domain.TargetInventory,
		Retrieval: true,
		Items:     []domain.Item{{Name: "搜索物品"}},
	}}}
	inventory := &fakeInventory{searchResults: []domain.SearchResult{{
		Query: "搜索物品",
		Found: true,
		Matches: []domain.Item{
			{ID: "99", Name: "搜索到的物品", Quantity: 1, Unit: "个"},
		},
	}}}
	habits := &fakeHabits{}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, inventory, habits, events, Config{})

	if err := c.SubmitText("查找搜索物品"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, func() bool { return events.hasReason(domain.ReasonLookupComplete) })

	if inventory.searchCount() != 1 {
		t.Fatalf("expected one inventory search, got %d", inventory.searchCount())
	}
	if habits.searchCount() != 0 {
		t.Fatalf("habit endpoint must not be called for inventory lookups")
	}

	view := c.SearchView()
	if view == nil || view.Kind != domain.SearchViewLookup {
		t.Fatalf("expected lookup view, got %+v", view)
	}
	if len(view.Items) != 1 || view.Items[0].Name != "搜索到的物品" {
		t.Fatalf("unexpected matches: %+v", view.Items)
	}
	if view.Message != "found 1 records" {
		t.Fatalf("unexpected summary: %q", view.Message)
	}
	if c.Status().PendingCommit {
		t.Fatalf("lookups must not arm a countdown")
	}
}

func TestHabitLookupFlattensMatchesInOrder(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target:    domain.TargetHabit,
		Retrieval: true,
		Habits:    []domain.Habit{{Name: "早起"}, {Name: "蔬菜"}},
	}}}
	habits := &fakeHabits{searchResults: []domain.HabitSearchResult{
		{Query: "早起", Found: true, Matches: []domain.Habit{{Name: "早起"}, {Name: "早睡"}}},
		{Query: "蔬菜", Found: true, Matches: []domain.Habit{{Name: "多吃蔬菜"}}},
	}}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, &fakeInventory{}, habits, events, Config{})

	if err := c.SubmitText("查一下早起和蔬菜"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, func() bool { return events.hasReason(domain.ReasonLookupComplete) })

	view := c.SearchView()
	if view == nil || len(view.Habits) != 3 {
		t.Fatalf("expected 3 flattened matches, got %+v", view)
	}
	if view.Habits[0].Name != "早起" || view.Habits[1].Name != "早睡" || view.Habits[2].Name != "多吃蔬菜" {
		t.Fatalf("matches out of order: %+v", view.Habits)
	}
	if view.Message != "found 3 records" {
		t.Fatalf("unexpected summary: %q", view.Message)
	}
}

func TestBlankTextNeverReachesClassifier(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, &fakeInventory{}, &fakeHabits{}, events, Config{})

	if err := c.SubmitText("   \t  "); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitFor(t, func() bool { return events.hasReason(domain.ReasonNoContent) })
	if classifier.callCount() != 0 {
		t.Fatalf("classifier must not be called for blank text")
	}
}

func TestBlankFinalizedRecordingNeverReachesClassifier(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	classifier := &fakeClassifier{}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		classifier, &fakeInventory{}, &fakeHabits{}, events, Config{CaptureTimeout: time.Hour})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "   "})
	session.end()

	waitFor(t, func() bool { return events.hasReason(domain.ReasonNoContent) })
	if classifier.callCount() != 0 {
		t.Fatalf("classifier must not be called for whitespace transcript")
	}
}

func TestClassificationFailureLeavesProjectionUntouched(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{err: errors.New("model unavailable")}
	inventory := &fakeInventory{}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, inventory, &fakeHabits{}, events, Config{})

	if err := c.SubmitText("买了两瓶可乐"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, func() bool { return events.hasReason(domain.ReasonClassificationFailed) })

	if inventory.updateCount() != 0 || inventory.searchCount() != 0 {
		t.Fatalf("projection endpoints must not be touched on classification failure")
	}
	if c.SearchView() != nil {
		t.Fatalf("search view must stay clear on classification failure")
	}
	errs := events.snapshotErrors()
	if len(errs) == 0 || errs[len(errs)-1].code != domain.ErrorCodeClassification {
		t.Fatalf("expected classification error event, got %+v", errs)
	}
}

func TestCommitFailureLeavesMirrorsUnchanged(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target: domain.TargetInventory,
		Items:  []domain.Item{{Name: "可乐", Quantity: 2}},
	}}}
	inventory := &fakeInventory{
		updateErr: errors.New("backend down"),
		listItems: []domain.Item{{ID: "1", Name: "现有库存"}},
	}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, inventory, &fakeHabits{}, events, Config{
		CountdownSeconds: 1,
		TickInterval:     time.Millisecond,
	})

	if err := c.SubmitText("买了两瓶可乐"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, func() bool { return events.hasReason(domain.ReasonCommitFailed) })

	if view := c.SearchView(); view != nil {
		t.Fatalf("no commit result view on failure, got %+v", view)
	}
	errs := events.snapshotErrors()
	if len(errs) == 0 || errs[len(errs)-1].code != domain.ErrorCodeCommit {
		t.Fatalf("expected commit error event, got %+v", errs)
	}
	// the self-heal refresh still fires after a failed inventory commit
	waitFor(t, func() bool { return inventory.listCount() >= 1 })
}

func TestHabitCommitReplacesMirrorWithReturnedCollection(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target: domain.TargetHabit,
		Habits: []domain.Habit{{Name: "蔬菜", Type: "习惯", Details: "多吃"}},
	}}}
	habits := &fakeHabits{updateOutcome: domain.UpdateOutcome{
		Habits: []domain.Habit{
			{Name: "早起", Type: "生活"},
			{Name: "蔬菜", Type: "习惯"},
		},
	}}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, &fakeInventory{}, habits, events, Config{
		CountdownSeconds: 1,
		TickInterval:     time.Millisecond,
	})

	if err := c.SubmitText("多吃蔬菜"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, func() bool { return events.hasReason(domain.ReasonCommitApplied) })

	if got := c.Habits(); len(got) != 2 {
		t.Fatalf("habit mirror should hold the returned collection, got %+v", got)
	}
	view := c.SearchView()
	if view == nil || view.Kind != domain.SearchViewCommitResult || len(view.Habits) != 2 {
		t.Fatalf("unexpected commit view: %+v", view)
	}
	if view.Message != "updated 2 habits" {
		t.Fatalf("unexpected view message: %q", view.Message)
	}
}

func TestReturnToDefaultViewClearsOverlayKeepsMirrors(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{intents: []domain.ParsedIntent{{
		Target:    domain.TargetInventory,
		Retrieval: true,
		Items:     []domain.Item{{Name: "可乐"}},
	}}}
	inventory := &fakeInventory{
		searchResults: []domain.SearchResult{{Query: "可乐", Found: true, Matches: []domain.Item{{Name: "可乐"}}}},
		listItems:     []domain.Item{{ID: "1", Name: "现有库存"}},
	}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, inventory, &fakeHabits{}, events, Config{})

	if err := c.RefreshInventory(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := c.SubmitText("查可乐"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitFor(t, func() bool { return c.SearchView() != nil })

	c.ReturnToDefaultView()

	if c.SearchView() != nil {
		t.Fatalf("search view must be cleared")
	}
	mirror := c.Inventory()
	if len(mirror) != 1 || mirror[0].Name != "现有库存" {
		t.Fatalf("mirror must be unchanged, got %+v", mirror)
	}
}

func TestNoSpeechErrorIsStatusOnly(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		&fakeClassifier{}, &fakeInventory{}, &fakeHabits{}, events, Config{CaptureTimeout: time.Hour})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionError, Code: domain.RecognitionErrorNoSpeech})
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionError, Code: "network"})

	waitFor(t, func() bool { return events.hasReason(domain.ReasonNoSpeech) })
	waitFor(t, func() bool {
		errs := events.snapshotErrors()
		return len(errs) == 1 && errs[0].code == domain.ErrorCodeCapture && errs[0].detail == "network"
	})
}

func TestEngineUnavailableIsRecoverable(t *testing.T) {
	t.Parallel()

	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{err: ports.ErrCapabilityUnavailable},
		&fakeClassifier{intents: []domain.ParsedIntent{{Target: domain.TargetInventory, Retrieval: true}}},
		&fakeInventory{}, &fakeHabits{}, events, Config{})

	err := c.BeginCapture(context.Background(), domain.CaptureModeMain)
	if !errors.Is(err, ports.ErrCapabilityUnavailable) {
		t.Fatalf("expected capability error, got %v", err)
	}
	errs := events.snapshotErrors()
	if len(errs) != 1 || errs[0].code != domain.ErrorCodeCapability {
		t.Fatalf("expected capability error event, got %+v", errs)
	}

	// typed entry still works without the engine
	if err := c.SubmitText("查库存"); err != nil {
		t.Fatalf("typed entry must survive capability loss: %v", err)
	}
}

func TestPartialTranscriptTargetsCaptureMode(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		&fakeClassifier{}, &fakeInventory{}, &fakeHabits{}, events, Config{CaptureTimeout: time.Hour})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeSecondary); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "多吃蔬菜"})

	waitFor(t, func() bool {
		partials := events.snapshotPartials()
		return len(partials) == 1 && partials[0].mode == domain.CaptureModeSecondary && partials[0].text == "多吃蔬菜"
	})
}

func TestResultReplacesTranscriptInsteadOfAppending(t *testing.T) {
	t.Parallel()

	session := newFakeRecognitionSession()
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{sessions: []*fakeRecognitionSession{session}},
		&fakeClassifier{}, &fakeInventory{}, &fakeHabits{}, events, Config{CaptureTimeout: time.Hour})

	if err := c.BeginCapture(context.Background(), domain.CaptureModeMain); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "买了"})
	session.push(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: "买了两瓶可乐"})

	waitFor(t, func() bool { return c.Status().Transcript == "买了两瓶可乐" })
}

func TestStaleClassificationIsDiscarded(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{
		intents: []domain.ParsedIntent{
			{Target: domain.TargetInventory, Items: []domain.Item{{Name: "第一次"}}},
			{Target: domain.TargetInventory, Items: []domain.Item{{Name: "第二次"}}},
		},
		blockCalls: 1,
		release:    make(chan struct{}),
	}
	inventory := &fakeInventory{updateOutcome: domain.UpdateOutcome{Items: []domain.Item{{Name: "第二次"}}}}
	events := &fakeEventSink{}
	c := newTestCoordinator(t, &fakeEngine{}, classifier, inventory, &fakeHabits{}, events, Config{
		CountdownSeconds: 1,
		TickInterval:     time.Millisecond,
	})

	if err := c.SubmitText("第一次输入"); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	waitFor(t, func() bool { return classifier.callCount() == 1 })

	if err := c.SubmitText("第二次输入"); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	waitFor(t, func() bool { return inventory.updateCount() == 1 })

	// the first classification finishes late and must be dropped
	close(classifier.release)

	time.Sleep(20 * time.Millisecond)
	if got := inventory.updateCount(); got != 1 {
		t.Fatalf("stale verdict produced a commit: %d calls", got)
	}
	if sent := inventory.lastUpdate(); sent[0].Name != "第二次" {
		t.Fatalf("wrong intent committed: %+v", sent)
	}
}

func newTestCoordinator(
	t *testing.T,
	engine ports.RecognitionEngine,
	classifier ports.Classifier,
	inventory ports.InventoryService,
	habits ports.HabitService,
	events ports.EventSink,
	cfg Config,
) *Coordinator {
	t.Helper()
	if cfg.CaptureTimeout == 0 {
		cfg.CaptureTimeout = time.Hour
	}
	if cfg.CountdownSeconds == 0 {
		cfg.CountdownSeconds = 5
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Millisecond
	}
	return NewCoordinator(engine, classifier, inventory, habits, events, nil, cfg)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

type fakeEngine struct {
	mu       sync.Mutex
	sessions []*fakeRecognitionSession
	calls    int
	err      error
}

func (f *fakeEngine) Start(_ context.Context, _ ports.RecognitionConfig) (ports.RecognitionSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no recognition session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

type fakeRecognitionSession struct {
	mu        sync.Mutex
	events    chan domain.RecognitionEvent
	stopCalls int
	closed    bool
}

func newFakeRecognitionSession() *fakeRecognitionSession {
	return &fakeRecognitionSession{events: make(chan domain.RecognitionEvent, 16)}
}

func (f *fakeRecognitionSession) push(event domain.RecognitionEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.events <- event
}

// end emits the engine end notification and closes the stream.
func (f *fakeRecognitionSession) end() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.events <- domain.RecognitionEvent{Kind: domain.RecognitionEnded}
	close(f.events)
	f.closed = true
}

// Stop mirrors the real engine: stopping triggers the end notification.
func (f *fakeRecognitionSession) Stop() error {
	f.mu.Lock()
	f.stopCalls++
	f.mu.Unlock()
	f.end()
	return nil
}

func (f *fakeRecognitionSession) Close() error { return nil }

func (f *fakeRecognitionSession) Events() <-chan domain.RecognitionEvent { return f.events }

func (f *fakeRecognitionSession) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

type fakeClassifier struct {
	mu         sync.Mutex
	intents    []domain.ParsedIntent
	err        error
	calls      int
	texts      []string
	blockCalls int
	release    chan struct{}
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (domain.ParsedIntent, error) {
	f.mu.Lock()
	index := f.calls
	f.calls++
	f.texts = append(f.texts, text)
	blocked := index < f.blockCalls
	f.mu.Unlock()

	if blocked {
		<-f.release
	}
	if f.err != nil {
		return domain.ParsedIntent{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.intents) == 0 {
		return domain.ParsedIntent{Target: domain.TargetInventory, Retrieval: true}, nil
	}
	if index >= len(f.intents) {
		index = len(f.intents) - 1
	}
	return f.intents[index], nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClassifier) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakeInventory struct {
	mu            sync.Mutex
	searchResults []domain.SearchResult
	searchErr     error
	searchCalls   int
	updateOutcome domain.UpdateOutcome
	updateErr     error
	updateCalls   int
	updates       [][]domain.Item
	listItems     []domain.Item
	listErr       error
	listCalls     int
}

func (f *fakeInventory) Search(_ context.Context, _ []domain.Item) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchResults, f.searchErr
}

func (f *fakeInventory) Update(_ context.Context, items []domain.Item) (domain.UpdateOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.updates = append(f.updates, items)
	if f.updateErr != nil {
		return domain.UpdateOutcome{}, f.updateErr
	}
	return f.updateOutcome, nil
}

func (f *fakeInventory) List(_ context.Context) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.listItems, f.listErr
}

func (f *fakeInventory) Delete(_ context.Context, _ string) (string, error) { return "deleted", nil }

func (f *fakeInventory) Edit(_ context.Context, item domain.Item) (domain.Item, error) {
	return item, nil
}

func (f *fakeInventory) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

func (f *fakeInventory) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls
}

func (f *fakeInventory) lastUpdate() []domain.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

func (f *fakeInventory) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakeHabits struct {
	mu            sync.Mutex
	searchResults []domain.HabitSearchResult
	searchErr     error
	searchCalls   int
	updateOutcome domain.UpdateOutcome
	updateErr     error
	updateCalls   int
	listHabits    []domain.Habit
	listErr       error
}

func (f *fakeHabits) Search(_ context.Context, _ []domain.Habit) ([]domain.HabitSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchResults, f.searchErr
}

func (f *fakeHabits) Update(_ context.Context, _ []domain.Habit) (domain.UpdateOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return domain.UpdateOutcome{}, f.updateErr
	}
	return f.updateOutcome, nil
}

func (f *fakeHabits) List(_ context.Context) ([]domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listHabits, f.listErr
}

func (f *fakeHabits) Delete(_ context.Context, _ string) (string, error) { return "deleted", nil }

func (f *fakeHabits) Edit(_ context.Context, habit domain.Habit) (domain.Habit, error) {
	return habit, nil
}

func (f *fakeHabits) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

type fakeEventSink struct {
	mu sync.Mutex

	states    []stateEvent
	partials  []partialEvent
	verdicts  []domain.ParsedIntent
	ticks     []int
	views     []*domain.SearchView
	inventory [][]domain.Item
	habits    [][]domain.Habit
	errors    []errEvent
}

type stateEvent struct {
	state  domain.CaptureState
	reason domain.StateReason
}

type partialEvent struct {
	mode domain.CaptureMode
	text string
}

type errEvent struct {
	code   domain.ErrorCode
	detail string
}

func (f *fakeEventSink) StateChanged(state domain.CaptureState, reason domain.StateReason) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, stateEvent{state: state, reason: reason})
}

func (f *fakeEventSink) PartialTranscript(mode domain.CaptureMode, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partials = append(f.partials, partialEvent{mode: mode, text: text})
}

func (f *fakeEventSink) VerdictReceived(intent domain.ParsedIntent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verdicts = append(f.verdicts, intent)
}

func (f *fakeEventSink) CountdownTick(remaining int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks = append(f.ticks, remaining)
}

func (f *fakeEventSink) SearchViewChanged(view *domain.SearchView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
}

func (f *fakeEventSink) InventoryChanged(items []domain.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inventory = append(f.inventory, items)
}

func (f *fakeEventSink) HabitsChanged(habits []domain.Habit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.habits = append(f.habits, habits)
}

func (f *fakeEventSink) SessionError(code domain.ErrorCode, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, errEvent{code: code, detail: detail})
}

func (f *fakeEventSink) hasReason(reason domain.StateReason) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, state := range f.states {
		if state.reason == reason {
			return true
		}
	}
	return false
}

func (f *fakeEventSink) snapshotErrors() []errEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]errEvent, len(f.errors))
	copy(out, f.errors)
	return out
}

func (f *fakeEventSink) snapshotPartials() []partialEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]partialEvent, len(f.partials))
	copy(out, f.partials)
	return out
}

func (f *fakeEventSink) snapshotTicks() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.ticks))
	copy(out, f.ticks)
	return out
}
