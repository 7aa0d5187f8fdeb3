package main

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/offtimer/offtimer-go/pkg/schedule"
)

// Exit codes of the one-shot countdown.
const (
	exitCompleted = 0
	exitFailed    = 1
	exitRejected  = 2
	exitCancelled = 3
)

// runCountdown arms intent, renders a progress bar until the cycle ends and
// cancels on a signal. It returns the process exit code.
func runCountdown(sched *schedule.Scheduler, intent schedule.Intent, out io.Writer, sigCh <-chan os.Signal) int {
	events := make(chan schedule.Event, 16)
	sched.OnEvent(func(ev schedule.Event) {
		if ev.Type == schedule.EventTick {
			// Rendering may lag; drop ticks rather than stall the countdown.
			select {
			case events <- ev:
			default:
			}
			return
		}
		events <- ev
	})
	defer sched.OnEvent(nil)

	deadline, err := sched.Arm(intent)
	if err != nil {
		fmt.Fprintf(out, "Cannot schedule power-off: %v\n", err)
		return exitRejected
	}

	st := sched.Status()
	total := st.Remaining
	fmt.Fprintf(out, "Power-off scheduled for %s (%s). Press Ctrl-C to cancel.\n",
		deadline.Format(schedule.SystemTimeLayout), intent)

	var remaining atomic.Uint32
	remaining.Store(total)

	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))
	name := "Shutdown in"
	bar := p.New(int64(total),
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string {
				return schedule.FormatRemaining(remaining.Load())
			}, decor.WC{W: 9}),
		),
		mpb.AppendDecorators(decor.Percentage(decor.WC{W: 5})),
	)

	for {
		select {
		case <-sigCh:
			// The outcome arrives as an event; a power-off already in flight
			// cannot be cancelled.
			sched.Cancel()
		case ev := <-events:
			switch ev.Type {
			case schedule.EventTick:
				remaining.Store(ev.Remaining)
				var grown bool
				total, grown = growTotal(total, ev.Remaining)
				if grown {
					bar.SetTotal(int64(total), false)
				}
				bar.SetCurrent(int64(total - ev.Remaining))
			case schedule.EventCompleted:
				remaining.Store(0)
				bar.SetCurrent(int64(total))
				p.Wait()
				fmt.Fprintln(out, "Power-off invoked.")
				return exitCompleted
			case schedule.EventCancelled:
				bar.Abort(false)
				p.Wait()
				fmt.Fprintln(out, "Power-off cancelled.")
				return exitCancelled
			case schedule.EventFailed:
				bar.Abort(false)
				p.Wait()
				fmt.Fprintf(out, "Power-off failed: %v\n", ev.Err)
				return exitFailed
			}
		}
	}
}

// growTotal widens the bar's total when a tick reports more seconds than
// the Status snapshot taken after Arm (a second boundary can pass between
// the two readings). It reports whether total changed.
func growTotal(total, remaining uint32) (uint32, bool) {
	if remaining > total {
		return remaining, true
	}
	return total, false
}
