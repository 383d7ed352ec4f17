package usecase

import (
	"sync"
	"time"

	"homevoice/internal/domain"
	"homevoice/internal/ports"
)

// activeCapture is one live recording session owned by the Coordinator.
type activeCapture struct {
	id         string
	generation uint64
	mode       domain.CaptureMode
	session    ports.RecognitionSession
	timeout    *time.Timer
	done       chan struct{}

	mu         sync.Mutex
	state      domain.CaptureState
	transcript string
	finished   bool
}

// setTranscript replaces the accumulated transcript. The engine re-sends
// the complete hypothesis on every result, not a delta.
func (a *activeCapture) setTranscript(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = text
}

func (a *activeCapture) transcriptSnapshot() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript
}

func (a *activeCapture) currentState() domain.CaptureState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *activeCapture) isFinished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished
}

// markFinished transitions into Finalizing exactly once. Returns false when
// the capture was already finalized.
func (a *activeCapture) markFinished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return false
	}
	a.finished = true
	a.state = domain.CaptureStateFinalizing
	return true
}
