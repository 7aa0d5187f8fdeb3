// Package interactive provides the readline shell for offtimer.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/offtimer/offtimer-go/pkg/history"
	"github.com/offtimer/offtimer-go/pkg/schedule"
)

// defaultHistoryLimit is the number of cycles "history" lists without an argument.
const defaultHistoryLimit = 10

// Shell handles interactive mode for offtimer.
type Shell struct {
	sched          *schedule.Scheduler
	store          *history.Store
	defaultMinutes int
	now            func() time.Time
	rl             *readline.Instance

	mu  sync.Mutex
	out io.Writer
}

// New creates a new interactive shell. store may be nil when history is
// disabled.
func New(sched *schedule.Scheduler, store *history.Store, defaultMinutes int) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "offtimer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	sh := newShell(sched, store, defaultMinutes, rl.Stdout())
	sh.rl = rl
	return sh, nil
}

func newShell(sched *schedule.Scheduler, store *history.Store, defaultMinutes int, out io.Writer) *Shell {
	sh := &Shell{
		sched:          sched,
		store:          store,
		defaultMinutes: defaultMinutes,
		now:            time.Now,
		out:            out,
	}
	sched.OnEvent(sh.handleEvent)
	return sh
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			s.println("Exiting...")
			cancel()
			return
		}

		if quit := s.dispatch(line); quit {
			cancel()
			return
		}
	}
}

// dispatch executes one input line and reports whether the shell should exit.
func (s *Shell) dispatch(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "timer", "t":
		s.cmdTimer(args)

	case "at", "a":
		s.cmdAt(args)

	case "cancel", "c":
		s.cmdCancel()

	case "status", "s":
		s.cmdStatus()

	case "time":
		s.printf("%s\n", s.now().Format(schedule.SystemTimeLayout))

	case "history", "h":
		s.cmdHistory(args)

	case "quit", "exit", "q":
		s.println("Exiting...")
		return true

	default:
		s.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	s.println(`
offtimer Commands:
  Scheduling:
    timer [min]   - Power off after <min> minutes (default from config)
    at <HH:MM>    - Power off at the next occurrence of HH:MM
    cancel        - Cancel the pending power-off
    status        - Show scheduler state and remaining time

  Information:
    time          - Show the current system time
    history [n]   - Show the last n cycles

  General:
    help          - Show this help
    quit          - Exit (cancels any pending power-off)`)
}

func (s *Shell) cmdTimer(args []string) {
	minutes := s.defaultMinutes
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			s.printf("Invalid minutes: %s\n", args[0])
			return
		}
		minutes = n
	}
	s.arm(schedule.TimerIntent(minutes))
}

func (s *Shell) cmdAt(args []string) {
	if len(args) < 1 {
		s.println("Usage: at <HH:MM>")
		return
	}
	at, err := schedule.ParseClockTime(args[0])
	if err != nil {
		s.printf("Invalid time: %v\n", err)
		return
	}
	s.arm(schedule.Intent{Mode: schedule.ModeScheduled, At: at})
}

func (s *Shell) arm(intent schedule.Intent) {
	deadline, err := s.sched.Arm(intent)
	switch {
	case errors.Is(err, schedule.ErrAlreadyArmed):
		s.println("A power-off is already pending; cancel it first.")
	case err != nil:
		s.printf("Cannot schedule power-off: %v\n", err)
	default:
		s.printf("Power-off scheduled for %s (%s)\n", deadline.Format(schedule.SystemTimeLayout), intent)
	}
}

func (s *Shell) cmdCancel() {
	if !s.sched.Cancel() {
		s.println("Nothing to cancel.")
	}
}

func (s *Shell) cmdStatus() {
	st := s.sched.Status()
	s.printf("State: %s\n", st.State)
	if !st.Active() {
		return
	}
	s.printf("  Cycle:     %s\n", st.CycleID)
	s.printf("  Intent:    %s\n", st.Intent)
	s.printf("  Armed at:  %s\n", st.ArmedAt.Format(schedule.SystemTimeLayout))
	s.printf("  Deadline:  %s\n", st.Deadline.Format(schedule.SystemTimeLayout))
	s.printf("  Remaining: %s\n", schedule.FormatRemaining(st.Remaining))
}

func (s *Shell) cmdHistory(args []string) {
	if s.store == nil {
		s.println("History is disabled (start with -history <db>).")
		return
	}

	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			s.printf("Invalid count: %s\n", args[0])
			return
		}
		limit = n
	}

	cycles, err := s.store.List(limit)
	if err != nil {
		s.printf("Failed to read history: %v\n", err)
		return
	}
	if len(cycles) == 0 {
		s.println("No cycles recorded.")
		return
	}

	s.printf("%-8s  %-19s  %-14s  %-9s  %s\n", "CYCLE", "ARMED", "INTENT", "OUTCOME", "REASON")
	for _, c := range cycles {
		id := c.ID
		if len(id) > 8 {
			id = id[:8]
		}
		s.printf("%-8s  %-19s  %-14s  %-9s  %s\n",
			id, c.ArmedAt.Local().Format(schedule.SystemTimeLayout), c.Intent, c.Outcome, c.Reason)
	}
}

// handleEvent announces milestones and cycle outcomes.
func (s *Shell) handleEvent(ev schedule.Event) {
	switch ev.Type {
	case schedule.EventTick:
		if announce(ev.Remaining) {
			s.printf("Power-off in %s\n", schedule.FormatRemaining(ev.Remaining))
		}
	case schedule.EventCompleted:
		s.println("Power-off invoked.")
	case schedule.EventCancelled:
		s.println("Power-off cancelled.")
	case schedule.EventFailed:
		s.printf("Power-off failed: %v\n", ev.Err)
	}
}

// announce reports whether a countdown value is worth printing: every
// whole hour, at 30, 10, 5 and 1 minutes, at 30 seconds, then each of the
// last ten seconds.
func announce(remaining uint32) bool {
	switch {
	case remaining == 0:
		return false
	case remaining <= 10:
		return true
	case remaining%3600 == 0:
		return true
	}
	switch remaining {
	case 1800, 600, 300, 60, 30:
		return true
	}
	return false
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, msg)
}
