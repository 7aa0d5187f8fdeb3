package schedule

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/offtimer/offtimer-go/pkg/clock"
	"github.com/offtimer/offtimer-go/pkg/log"
	"github.com/offtimer/offtimer-go/pkg/poweroff"
)

// TickInterval is the countdown granularity.
const TickInterval = time.Second

// ErrNoAction is returned by New when Config.Action is nil.
var ErrNoAction = errors.New("no power-off action configured")

// Config configures a Scheduler.
type Config struct {
	// Action is invoked when a countdown reaches zero. Required.
	Action poweroff.Action

	// Clock supplies time and ticks. Defaults to the real clock.
	Clock clock.Clock

	// OnEvent receives ticks and terminal events. Optional.
	OnEvent EventHandler

	// EventLogger receives the structured event trace. Optional.
	EventLogger log.Logger

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Scheduler owns at most one pending power-off action.
type Scheduler struct {
	mu sync.Mutex

	clock   clock.Clock
	action  poweroff.Action
	onEvent EventHandler
	events  log.Logger
	logger  *slog.Logger

	state   State
	current *cycle
	closed  bool

	// Running tick loops, waited for by Close.
	wg sync.WaitGroup
}

// cycle is the single scheduled action of one armed period.
type cycle struct {
	id       string
	intent   Intent
	armedAt  time.Time
	deadline time.Time
	ticker   clock.Ticker
	stop     chan struct{}
}

// New creates an idle scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Action == nil {
		return nil, ErrNoAction
	}

	s := &Scheduler{
		clock:   cfg.Clock,
		action:  cfg.Action,
		onEvent: cfg.OnEvent,
		events:  cfg.EventLogger,
		logger:  cfg.Logger,
		state:   StateIdle,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.events == nil {
		s.events = log.NoopLogger{}
	}
	return s, nil
}

// OnEvent replaces the observer. Events already being delivered still go to
// the previous handler.
func (s *Scheduler) OnEvent(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = handler
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns a snapshot of the scheduler.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{State: s.state}
	if c := s.current; c != nil {
		st.CycleID = c.id
		st.Intent = c.intent
		st.ArmedAt = c.armedAt
		st.Deadline = c.deadline
		st.Remaining = remainingSeconds(c.deadline, s.clock.Now())
	}
	return st
}

// Arm validates intent, computes its deadline and starts the countdown.
// It returns the deadline, or an error matching ErrInvalidIntent,
// ErrAlreadyArmed or ErrClosed. A rejected Arm leaves any pending action
// untouched.
func (s *Scheduler) Arm(intent Intent) (time.Time, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return time.Time{}, ErrClosed
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		s.reject(intent, ErrAlreadyArmed)
		return time.Time{}, ErrAlreadyArmed
	}

	now := s.clock.Now()
	deadline, err := intent.Deadline(now)
	if err != nil {
		s.mu.Unlock()
		s.reject(intent, err)
		return time.Time{}, err
	}

	c := &cycle{
		id:       uuid.NewString(),
		intent:   intent,
		armedAt:  now,
		deadline: deadline,
		ticker:   s.clock.NewTicker(TickInterval),
		stop:     make(chan struct{}),
	}
	s.state = StateArmed
	s.current = c
	s.wg.Add(1)
	s.mu.Unlock()

	s.debugLog("Arm: armed", "cycleID", c.id, "intent", intent.String(), "deadline", deadline)

	go s.run(c, remainingSeconds(deadline, now))
	return deadline, nil
}

// Cancel disarms a pending action. It returns true if an action was armed
// and is now suppressed, false if there was nothing to cancel or the
// power-off action is already in flight.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateArmed {
		return false
	}
	s.debugLog("Cancel: disarming", "cycleID", s.current.id)
	s.disarmLocked()
	return true
}

// Close cancels any armed action without firing, waits for the countdown
// goroutine (including an in-flight power-off) to finish, and rejects
// further Arm calls. It must not be called from an EventHandler.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.state == StateArmed {
		s.disarmLocked()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// disarmLocked resets to idle and wakes the tick loop. Caller holds s.mu.
func (s *Scheduler) disarmLocked() {
	c := s.current
	c.ticker.Stop()
	close(c.stop)
	s.current = nil
	s.state = StateIdle
}

// isCurrent reports whether c is still the armed cycle.
func (s *Scheduler) isCurrent(c *cycle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == c && s.state == StateArmed
}

// run is the tick loop of one armed period.
func (s *Scheduler) run(c *cycle, remaining uint32) {
	defer s.wg.Done()
	defer c.ticker.Stop()

	// Sinks may do I/O, so the arm record is written here rather than in Arm.
	s.events.Log(log.Event{
		Timestamp: c.armedAt,
		CycleID:   c.id,
		Kind:      log.KindArm,
		Deadline:  &c.deadline,
		Intent:    intentData(c.intent),
		StateChange: &log.StateChangeEvent{
			OldState: StateIdle.String(),
			NewState: StateArmed.String(),
		},
	})

	for {
		if !s.isCurrent(c) {
			s.finishCancelled(c)
			return
		}
		s.emitTick(c, remaining)
		if remaining == 0 {
			break
		}

		select {
		case <-c.stop:
			continue
		case <-c.ticker.C():
		}

		// Recompute against the deadline; never count up.
		next := remainingSeconds(c.deadline, s.clock.Now())
		if next < remaining {
			remaining = next
		}
	}

	s.fire(c)
}

// fire invokes the power-off action once, unless Cancel won the race.
func (s *Scheduler) fire(c *cycle) {
	s.mu.Lock()
	if s.current != c || s.state != StateArmed {
		s.mu.Unlock()
		s.finishCancelled(c)
		return
	}
	s.state = StateFiring
	c.ticker.Stop()
	s.mu.Unlock()

	s.debugLog("fire: invoking power-off action", "cycleID", c.id)
	err := s.action.PowerOff(context.Background())

	s.mu.Lock()
	s.current = nil
	s.state = StateIdle
	s.mu.Unlock()

	change := &log.StateChangeEvent{
		OldState: StateFiring.String(),
		NewState: StateIdle.String(),
	}
	if err != nil {
		s.debugLog("fire: power-off failed", "cycleID", c.id, "error", err)
		change.Reason = "power-off failed"
		s.events.Log(log.Event{
			Timestamp:   s.clock.Now(),
			CycleID:     c.id,
			Kind:        log.KindFail,
			Deadline:    &c.deadline,
			StateChange: change,
			Error:       &log.ErrorEventData{Message: err.Error(), Context: "power-off"},
		})
		s.emit(Event{Type: EventFailed, CycleID: c.id, Deadline: c.deadline, Err: err})
		return
	}

	change.Reason = "power-off invoked"
	s.events.Log(log.Event{
		Timestamp:   s.clock.Now(),
		CycleID:     c.id,
		Kind:        log.KindComplete,
		Deadline:    &c.deadline,
		StateChange: change,
	})
	s.emit(Event{Type: EventCompleted, CycleID: c.id, Deadline: c.deadline})
}

func (s *Scheduler) emitTick(c *cycle, remaining uint32) {
	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		CycleID:   c.id,
		Kind:      log.KindTick,
		Remaining: &remaining,
	})

	// Check and handler lookup share one critical section with Cancel: once
	// Cancel has returned true, no tick of c is handed to the observer.
	s.mu.Lock()
	if s.current != c || s.state != StateArmed {
		s.mu.Unlock()
		s.debugLog("run: tick dropped after cancel", "cycleID", c.id, "remaining", remaining)
		return
	}
	handler := s.onEvent
	s.mu.Unlock()

	if handler != nil {
		handler(Event{Type: EventTick, CycleID: c.id, Deadline: c.deadline, Remaining: remaining})
	}
}

func (s *Scheduler) finishCancelled(c *cycle) {
	s.debugLog("run: cycle cancelled", "cycleID", c.id)
	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		CycleID:   c.id,
		Kind:      log.KindCancel,
		Deadline:  &c.deadline,
		StateChange: &log.StateChangeEvent{
			OldState: StateArmed.String(),
			NewState: StateIdle.String(),
			Reason:   "cancelled",
		},
	})
	s.emit(Event{Type: EventCancelled, CycleID: c.id, Deadline: c.deadline})
}

func (s *Scheduler) reject(intent Intent, err error) {
	s.debugLog("Arm: rejected", "intent", intent.String(), "error", err)
	s.events.Log(log.Event{
		Timestamp: s.clock.Now(),
		Kind:      log.KindReject,
		Intent:    intentData(intent),
		Error:     &log.ErrorEventData{Message: err.Error(), Context: "arm"},
	})
}

func (s *Scheduler) emit(ev Event) {
	s.mu.Lock()
	handler := s.onEvent
	s.mu.Unlock()

	if handler != nil {
		handler(ev)
	}
}

func (s *Scheduler) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// remainingSeconds returns ceil(deadline - now) in whole seconds, floored at 0.
func remainingSeconds(deadline, now time.Time) uint32 {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	if d >= time.Duration(math.MaxUint32)*time.Second {
		return math.MaxUint32
	}
	return uint32((d + time.Second - 1) / time.Second)
}

func intentData(i Intent) *log.IntentData {
	d := &log.IntentData{Mode: i.Mode.String()}
	switch i.Mode {
	case ModeTimer:
		d.Minutes = i.Minutes
	case ModeScheduled:
		d.Hour = i.At.Hour
		d.Minute = i.At.Minute
	}
	return d
}
