package main

import (
	"time"

	"overtype/platform"
)

// sessionPhase names the capture session states. Exactly one session can be
// live; Submitting suppresses the cancel path's restore so a submission is
// never shadowed by its own dismissal notification.
type sessionPhase int

const (
	phaseIdle sessionPhase = iota
	phaseCaptureActive
	phaseSubmitting
)

func (p sessionPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseCaptureActive:
		return "capture"
	case phaseSubmitting:
		return "submitting"
	}
	return "unknown"
}

// captureSession owns the focus snapshot: the window that held foreground
// focus immediately before the capture surface went up. All transitions are
// total: invalid ones report false and change nothing, so the snapshot and
// the phase can never disagree.
type captureSession struct {
	phase    sessionPhase
	prev     platform.Handle
	id       string
	openedAt time.Time
}

// begin opens a session, snapshotting the previous foreground window. Only
// valid while idle; a second trigger during a live session changes nothing.
func (s *captureSession) begin(prev platform.Handle, id string) bool {
	if s.phase != phaseIdle {
		return false
	}
	s.phase = phaseCaptureActive
	s.prev = prev
	s.id = id
	s.openedAt = time.Now()
	return true
}

// cancel ends an active session, returning the snapshot to restore. A
// cancel while idle or mid-submit is a no-op.
func (s *captureSession) cancel() (platform.Handle, bool) {
	if s.phase != phaseCaptureActive {
		return 0, false
	}
	prev := s.prev
	s.clear()
	return prev, true
}

// beginSubmit moves an active session into the submitting phase and hands
// out the snapshot. From here only finish applies; the cancel path is shut.
func (s *captureSession) beginSubmit() (platform.Handle, bool) {
	if s.phase != phaseCaptureActive {
		return 0, false
	}
	s.phase = phaseSubmitting
	return s.prev, true
}

// finish closes out a submit, clearing the snapshot.
func (s *captureSession) finish() {
	if s.phase != phaseSubmitting {
		return
	}
	s.clear()
}

func (s *captureSession) active() bool {
	return s.phase != phaseIdle
}

func (s *captureSession) clear() {
	s.phase = phaseIdle
	s.prev = 0
	s.id = ""
	s.openedAt = time.Time{}
}
