package main

import (
	"testing"

	"overtype/platform"
)

func TestSessionBeginOnlyFromIdle(t *testing.T) {
	var s captureSession

	if !s.begin(platform.Handle(0x123), "first") {
		t.Fatal("begin from idle failed")
	}
	if s.phase != phaseCaptureActive || s.prev != 0x123 {
		t.Fatalf("after begin: phase=%v prev=%#x", s.phase, uintptr(s.prev))
	}

	// A second trigger must not create a second snapshot.
	if s.begin(platform.Handle(0x456), "second") {
		t.Error("begin succeeded while a session was live")
	}
	if s.prev != 0x123 || s.id != "first" {
		t.Errorf("first snapshot was clobbered: prev=%#x id=%q", uintptr(s.prev), s.id)
	}
}

func TestSessionCancelReturnsSnapshot(t *testing.T) {
	var s captureSession
	s.begin(platform.Handle(0x123), "s1")

	prev, ok := s.cancel()
	if !ok || prev != 0x123 {
		t.Fatalf("cancel = (%#x, %v), want (0x123, true)", uintptr(prev), ok)
	}
	if s.active() || s.prev != 0 {
		t.Error("cancel did not clear the session")
	}

	// Restoring twice in a row: the second cancel has nothing to return.
	if _, ok := s.cancel(); ok {
		t.Error("cancel from idle must be a no-op")
	}
}

func TestSessionSubmitPath(t *testing.T) {
	var s captureSession
	s.begin(platform.Handle(0x123), "s1")

	prev, ok := s.beginSubmit()
	if !ok || prev != 0x123 {
		t.Fatalf("beginSubmit = (%#x, %v)", uintptr(prev), ok)
	}
	if s.phase != phaseSubmitting {
		t.Errorf("phase = %v, want submitting", s.phase)
	}

	// The cancel path is shut while submitting.
	if _, ok := s.cancel(); ok {
		t.Error("cancel succeeded mid-submit")
	}

	s.finish()
	if s.active() || s.prev != 0 || s.id != "" {
		t.Error("finish did not clear the session")
	}
}

func TestSessionSubmitOnlyFromActive(t *testing.T) {
	var s captureSession

	if _, ok := s.beginSubmit(); ok {
		t.Error("beginSubmit from idle succeeded")
	}

	s.begin(platform.Handle(0x1), "s1")
	s.beginSubmit()
	if _, ok := s.beginSubmit(); ok {
		t.Error("beginSubmit from submitting succeeded")
	}
}

func TestSessionFinishOnlyFromSubmitting(t *testing.T) {
	var s captureSession
	s.begin(platform.Handle(0x1), "s1")

	// finish outside the submit path must not silently clear a live capture.
	s.finish()
	if !s.active() {
		t.Error("finish cleared a session that was not submitting")
	}
}

func TestSessionPhaseString(t *testing.T) {
	for phase, want := range map[sessionPhase]string{
		phaseIdle: "idle", phaseCaptureActive: "capture", phaseSubmitting: "submitting",
	} {
		if got := phase.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", phase, got, want)
		}
	}
}
