package usecase

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"homevoice/internal/domain"
)

// commitCountdown is a cancellable auto-commit timer. At most one instance
// is alive at a time; arming a new one invalidates any prior instance.
type commitCountdown struct {
	generation uint64
	intent     domain.ParsedIntent

	mu        sync.Mutex
	remaining int
	cancelled bool

	stop     chan struct{}
	stopOnce sync.Once
}

func (cd *commitCountdown) cancel() {
	cd.mu.Lock()
	cd.cancelled = true
	cd.mu.Unlock()
	cd.stopOnce.Do(func() { close(cd.stop) })
}

func (cd *commitCountdown) isCancelled() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.cancelled
}

func (cd *commitCountdown) remainingSeconds() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.remaining
}

func (cd *commitCountdown) decrement() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.remaining--
	return cd.remaining
}

// armCountdown installs a fresh countdown for a write verdict, replacing
// any countdown still pending.
func (c *Coordinator) armCountdown(generation uint64, intent domain.ParsedIntent) {
	cd := &commitCountdown{
		generation: generation,
		intent:     intent,
		remaining:  c.cfg.CountdownSeconds,
		stop:       make(chan struct{}),
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	if c.countdown != nil {
		c.countdown.cancel()
	}
	c.countdown = cd
	c.mu.Unlock()

	c.logger.Info("auto-commit countdown armed",
		zap.Int("seconds", cd.remainingSeconds()),
		zap.String("target", string(intent.Target)),
	)
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCountdownArmed)
	c.events.CountdownTick(cd.remainingSeconds())

	go c.runCountdown(cd)
}

func (c *Coordinator) runCountdown(cd *commitCountdown) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			remaining := cd.decrement()
			if cd.isCancelled() {
				return
			}
			c.events.CountdownTick(remaining)
			if remaining <= 0 {
				c.fireCountdown(cd)
				return
			}
		}
	}
}

// fireCountdown commits the armed intent on natural expiry. A countdown
// that has been superseded is a no-op even if its tick already fired.
func (c *Coordinator) fireCountdown(cd *commitCountdown) {
	c.mu.Lock()
	if cd.generation != c.generation || c.countdown != cd {
		c.mu.Unlock()
		return
	}
	c.countdown = nil
	c.mu.Unlock()

	c.executeCommit(cd.generation, cd.intent)
}

// CancelPendingCommit invalidates the pending countdown. The classified
// intent stays visible for manual correction and is never auto-resubmitted.
func (c *Coordinator) CancelPendingCommit() {
	c.mu.Lock()
	cd := c.countdown
	c.countdown = nil
	c.mu.Unlock()

	if cd == nil {
		return
	}
	cd.cancel()
	c.logger.Info("auto-commit cancelled", zap.Int("remaining", cd.remainingSeconds()))
	c.events.StateChanged(domain.CaptureStateIdle, domain.ReasonCountdownCancelled)
}
