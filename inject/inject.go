// Package inject synthesizes keyboard input that reproduces a string in
// whatever window currently holds focus. The retry core is portable; the
// platform submission primitive sits behind the Sender interface.
package inject

import (
	"log/slog"
	"time"
	"unicode/utf16"
)

// KeyEvent is one synthetic key transition carrying a UTF-16 code unit as a
// direct Unicode scan value, bypassing virtual-key and layout mapping.
type KeyEvent struct {
	Unit uint16
	Up   bool
}

// Sender submits an ordered batch of synthetic key events and reports how
// many the platform accepted. The platform gives no indication of which
// events were dropped, only the count.
type Sender interface {
	Send(events []KeyEvent) (accepted int, err error)
}

// Options control one SendText call.
type Options struct {
	// Delay is waited before the first attempt. Callers sequencing after a
	// focus change use it; callers that already waited pass zero.
	Delay time.Duration
	// RetryCount is the number of additional whole-batch attempts after the
	// first one falls short.
	RetryCount int
	// RetryDelay is waited between attempts.
	RetryDelay time.Duration
}

// DefaultOptions returns the documented defaults: no leading delay, three
// retries, 100ms apart.
func DefaultOptions() Options {
	return Options{RetryCount: 3, RetryDelay: 100 * time.Millisecond}
}

// Result describes the final state of one SendText call. Callers may log it,
// assert on it, or ignore it; injection failure is never an error.
type Result struct {
	Expected int // 2 × code-unit count
	Accepted int // platform-accepted events on the final attempt
	Attempts int
}

// Succeeded reports whether the final attempt delivered the full batch.
func (r Result) Succeeded() bool {
	return r.Expected > 0 && r.Accepted == r.Expected
}

// Injector reproduces text as synthetic keystrokes through a Sender.
type Injector struct {
	sender Sender
}

// New creates an Injector over the given platform sender.
func New(sender Sender) *Injector {
	return &Injector{sender: sender}
}

// Encode expands text into the ordered press/release event batch. Each
// UTF-16 code unit becomes its own pair, so a surrogate pair yields four
// events.
func Encode(text string) []KeyEvent {
	units := utf16.Encode([]rune(text))
	events := make([]KeyEvent, 0, 2*len(units))
	for _, u := range units {
		events = append(events, KeyEvent{Unit: u}, KeyEvent{Unit: u, Up: true})
	}
	return events
}

// SendText types text into the focused window. Empty text is a no-op. If the
// platform accepts fewer events than expected, the whole batch is resent
// after opts.RetryDelay, up to opts.RetryCount extra attempts; a partial
// batch is never resumed because the platform does not say which events were
// dropped. Exhausting the retries is logged, not returned as an error: by
// then the capture surface is gone and there is no one to tell.
func (i *Injector) SendText(text string, opts Options) Result {
	if text == "" {
		return Result{}
	}
	if opts.Delay > 0 {
		time.Sleep(opts.Delay)
	}

	events := Encode(text)
	res := Result{Expected: len(events)}

	for attempt := 1; attempt <= opts.RetryCount+1; attempt++ {
		if attempt > 1 && opts.RetryDelay > 0 {
			time.Sleep(opts.RetryDelay)
		}

		accepted, err := i.sender.Send(events)
		res.Accepted = accepted
		res.Attempts = attempt

		if err != nil {
			slog.Warn("injection attempt failed",
				"attempt", attempt, "accepted", accepted, "expected", res.Expected, "error", err)
			continue
		}
		slog.Info("injection attempt",
			"attempt", attempt, "accepted", accepted, "expected", res.Expected)

		if accepted == res.Expected {
			return res
		}
	}

	slog.Warn("injection gave up after retries",
		"attempts", res.Attempts, "accepted", res.Accepted, "expected", res.Expected)
	return res
}
