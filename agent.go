package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"overtype/config"
	"overtype/hotkey"
	"overtype/inject"
	"overtype/overlay"
	"overtype/platform"
	"overtype/snippets"
	"overtype/storage"
)

// Agent is the coordinator: it consumes hotkey triggers, drives the capture
// surface, restores foreground focus, and hands submitted text to the
// injector. Every session operation runs on the single Run loop goroutine;
// the hook thread only ever touches the atomically swapped binding.
type Agent struct {
	binding  atomic.Pointer[hotkey.Binding]
	snips    atomic.Pointer[snippets.Table]
	enabled  atomic.Bool
	phase    atomic.Int32

	hook     platform.Hook
	fg       platform.Foreground
	surface  overlay.Surface
	injector *inject.Injector
	db       *storage.DB // nil disables history

	// onRecord receives each completed session record and onPhase each
	// phase change, for the dashboard's live feed. Both optional.
	onRecord func(storage.Injection)
	onPhase  func(string)

	sess captureSession
}

// NewAgent wires the agent against the real platform.
func NewAgent(cfg *config.Config, db *storage.DB) (*Agent, error) {
	sender, err := inject.NewSender()
	if err != nil {
		return nil, fmt.Errorf("failed to create input sender: %w", err)
	}
	surface, err := overlay.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create capture surface: %w", err)
	}

	a := newAgent(platform.NewHook(), platform.NewForeground(), surface, sender, db)
	if err := a.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// newAgent assembles an agent from explicit collaborators. Tests supply
// fakes here.
func newAgent(hook platform.Hook, fg platform.Foreground, surface overlay.Surface, sender inject.Sender, db *storage.DB) *Agent {
	a := &Agent{
		hook:     hook,
		fg:       fg,
		surface:  surface,
		injector: inject.New(sender),
		db:       db,
	}
	a.enabled.Store(true)
	a.snips.Store(snippets.NewTable(nil))
	return a
}

// ApplyConfig swaps in a new binding and snippet table. Safe from any
// goroutine: the binding is replaced by reference, so the hook never sees a
// half-updated configuration and no hook reinstallation is needed.
func (a *Agent) ApplyConfig(cfg *config.Config) error {
	b, err := cfg.Binding()
	if err != nil {
		return fmt.Errorf("invalid hotkey configuration: %w", err)
	}
	a.binding.Store(&b)
	slog.Info("hotkey binding applied", "hotkey", b.String())

	if cfg.Snippets.Enabled {
		table, err := snippets.Load(cfg.Snippets.Path)
		if err != nil {
			slog.Warn("failed to load snippets", "error", err)
		} else {
			a.snips.Store(table)
			if table.Len() > 0 {
				slog.Info("snippets loaded", "rules", table.Len())
			}
		}
	} else {
		a.snips.Store(snippets.NewTable(nil))
	}
	return nil
}

// SetEnabled gates hotkey classification; the hook stays installed.
func (a *Agent) SetEnabled(enabled bool) {
	a.enabled.Store(enabled)
	slog.Info("hotkey capture toggled", "enabled", enabled)
}

// Enabled reports whether the hotkey currently fires.
func (a *Agent) Enabled() bool { return a.enabled.Load() }

// Phase reports the session phase for the dashboard.
func (a *Agent) Phase() string { return sessionPhase(a.phase.Load()).String() }

func (a *Agent) setPhase(p sessionPhase) {
	a.phase.Store(int32(p))
	if a.onPhase != nil {
		a.onPhase(p.String())
	}
}

// Hotkey reports the live binding for the dashboard and tray.
func (a *Agent) Hotkey() string {
	if b := a.binding.Load(); b != nil {
		return b.String()
	}
	return ""
}

// classify runs on the hook's latency-sensitive delivery thread. It must
// not block: one atomic load, one value comparison, one modifier probe.
func (a *Agent) classify(vk uint32, kind hotkey.KeyKind) bool {
	if !a.enabled.Load() {
		return false
	}
	b := a.binding.Load()
	if b == nil {
		return false
	}
	return hotkey.Matches(vk, kind, *b, platform.ModifierDown)
}

// Run installs the hook and processes triggers and surface notifications
// until ctx is cancelled. Hook install refusal is not fatal: the app keeps
// running (tray, dashboard) without hotkey capability.
func (a *Agent) Run(ctx context.Context) error {
	fired, err := a.hook.Listen(ctx, a.classify)
	if err != nil {
		var installErr *platform.HookInstallError
		if errors.As(err, &installErr) {
			slog.Error("keyboard hook install failed, hotkey capture disabled",
				"code", installErr.Code, "error", installErr.Err)
			fired = nil
		} else {
			return err
		}
	} else {
		slog.Info("keyboard hook installed", "hotkey", a.Hotkey())
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-fired:
			slog.Info("hotkey fired")
			a.toggle()

		case ev := <-a.surface.Events():
			switch ev.Kind {
			case overlay.EventSubmitted:
				a.submit(ev.Text)
			case overlay.EventVisibility:
				if !ev.Visible {
					a.cancelSession()
				}
			}
		}
	}
}

// toggle opens a capture session, or cancels the one in flight.
func (a *Agent) toggle() {
	if a.sess.active() {
		a.cancelSession()
		return
	}

	prev := a.fg.Current()
	if !a.sess.begin(prev, uuid.NewString()) {
		return
	}
	a.setPhase(phaseCaptureActive)
	slog.Info("capture session opened",
		"session", a.sess.id, "previous", fmt.Sprintf("%#x", uintptr(prev)))

	a.surface.ShowAndFocus()
	if err := a.fg.Raise(a.surface.Handle()); err != nil {
		slog.Warn("could not raise capture surface", "error", err)
	}
}

// cancelSession ends an active session without typing anything. Focus goes
// back to the snapshot synchronously; a dead snapshot window is expected
// and swallowed inside restore.
func (a *Agent) cancelSession() {
	prev, ok := a.sess.cancel()
	if !ok {
		return
	}
	a.setPhase(phaseIdle)
	a.surface.Hide()
	a.restore(prev)
	slog.Info("capture session cancelled")
}

// submit types the captured line into the previously focused window.
func (a *Agent) submit(text string) {
	prev, ok := a.sess.beginSubmit()
	if !ok {
		slog.Warn("submission with no active session dropped")
		return
	}
	a.setPhase(phaseSubmitting)
	sessionID := a.sess.id
	openedAt := a.sess.openedAt

	a.surface.Hide()
	restored := a.restore(prev)

	b := a.binding.Load()
	// Let the platform finish the foreground switch before the first
	// keystroke lands; the injector itself then starts with zero delay.
	if b.FocusRestoreDelay > 0 {
		time.Sleep(b.FocusRestoreDelay)
	}

	line := a.snips.Load().Apply(text)
	if line == "" {
		slog.Info("nothing to type after rewrite", "session", sessionID)
		a.sess.finish()
		a.setPhase(phaseIdle)
		return
	}

	start := time.Now()
	res := a.injector.SendText(line, inject.Options{
		RetryCount: b.RetryCount,
		RetryDelay: b.RetryDelay,
	})
	a.record(sessionID, openedAt, line, res, restored, time.Since(start))

	a.sess.finish()
	a.setPhase(phaseIdle)
}

// restore brings the snapshot window back to foreground. Failure is an
// expected outcome (the window may be gone); it is logged and swallowed.
// The capture surface is already dismissed, there is nothing to report to.
func (a *Agent) restore(prev platform.Handle) bool {
	if prev == 0 {
		return false
	}
	if err := a.fg.Raise(prev); err != nil {
		slog.Warn("focus restore failed",
			"window", fmt.Sprintf("%#x", uintptr(prev)), "error", err)
		return false
	}
	slog.Info("focus restored", "window", fmt.Sprintf("%#x", uintptr(prev)))
	return true
}

func (a *Agent) record(sessionID string, openedAt time.Time, line string, res inject.Result, restored bool, latency time.Duration) {
	inj := storage.Injection{
		Timestamp:          time.Now(),
		SessionID:          sessionID,
		CharacterCount:     len([]rune(line)),
		CodeUnitCount:      res.Expected / 2,
		EventsExpected:     res.Expected,
		EventsAccepted:     res.Accepted,
		Attempts:           res.Attempts,
		Success:            res.Succeeded(),
		FocusRestored:      restored,
		CaptureDurationMs:  time.Since(openedAt).Milliseconds(),
		InjectionLatencyMs: latency.Milliseconds(),
	}

	if a.db != nil {
		if err := a.db.SaveInjection(&inj); err != nil {
			slog.Warn("failed to record injection", "error", err)
		}
	}
	if a.onRecord != nil {
		a.onRecord(inj)
	}
}
