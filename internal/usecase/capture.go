package usecase

import (
	"strings"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// stopToken self-terminates a session when it appears anywhere in the
// hypothesis, case-insensitively.
const stopToken = "over"

// consumeRecognitionEvents drains one session's engine notifications in
// order. Runs on its own goroutine; exactly one per capture.
func (c *Coordinator) consumeRecognitionEvents(capture *activeCapture) {
	defer close(capture.done)

	for event := range capture.session.Events() {
		switch event.Kind {
		case domain.RecognitionStarted:
			c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonRecordingStarted)
		case domain.RecognitionResult:
			c.handleResult(capture, event.Text)
		case domain.RecognitionError:
			c.handleCaptureError(event.Code)
		case domain.RecognitionEnded:
			c.finalizeCapture(capture)
			return
		}
	}

	// the engine closed the stream without an explicit end notification
	c.finalizeCapture(capture)
}

func (c *Coordinator) handleResult(capture *activeCapture, text string) {
	capture.setTranscript(text)
	c.events.PartialTranscript(capture.mode, text)

	if strings.Contains(strings.ToLower(text), stopToken) {
		c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonOverDetected)
		if err := capture.session.Stop(); err != nil {
			c.logger.Warn("engine stop after stop token failed", zap.Error(err))
		}
	}
}

func (c *Coordinator) handleCaptureError(code string) {
	if code == domain.RecognitionErrorNoSpeech {
		c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonNoSpeech)
		return
	}
	c.events.SessionError(domain.ErrorCodeCapture, code)
}

// expireCapture enforces the hard session timeout. A timer firing for a
// capture that is no longer current is a no-op.
func (c *Coordinator) expireCapture(capture *activeCapture) {
	c.mu.Lock()
	current := c.capture == capture
	c.mu.Unlock()

	if !current || capture.isFinished() {
		return
	}
	c.events.StateChanged(domain.CaptureStateRecording, domain.ReasonCaptureTimeout)
	if err := capture.session.Stop(); err != nil {
		c.logger.Warn("engine stop on timeout failed", zap.Error(err))
	}
}

// finalizeCapture runs once per capture when the engine reports the end of
// the session. Non-blank transcript goes to classification; blank returns
// straight to idle.
func (c *Coordinator) finalizeCapture(capture *activeCapture) {
	if !capture.markFinished() {
		return
	}
	capture.timeout.Stop()
	_ = capture.session.Close()

	c.mu.Lock()
	if c.capture == capture {
		c.capture = nil
	}
	stale := capture.generation != c.generation
	c.mu.Unlock()

	if stale {
		c.logger.Debug("discarding finalization of superseded capture",
			zap.String("capture_id", capture.id))
		return
	}

	text := strings.TrimSpace(capture.transcriptSnapshot())
	if text == "" {
		c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonNoContent)
		return
	}

	c.events.StateChanged(domain.CaptureStateFinalizing, domain.ReasonClassifying)
	c.classify(capture.generation, text)
}
