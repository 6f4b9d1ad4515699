package inject

import (
	"errors"
	"testing"
)

// fakeSender scripts how many events each attempt accepts.
type fakeSender struct {
	accepts []int // accepted count per attempt; last value repeats
	errs    []error
	batches [][]KeyEvent
}

func (f *fakeSender) Send(events []KeyEvent) (int, error) {
	call := len(f.batches)
	f.batches = append(f.batches, append([]KeyEvent(nil), events...))

	idx := call
	if idx >= len(f.accepts) {
		idx = len(f.accepts) - 1
	}
	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	return f.accepts[idx], err
}

func TestEncode_PressReleaseOrder(t *testing.T) {
	events := Encode("ab")
	want := []KeyEvent{
		{Unit: 'a'}, {Unit: 'a', Up: true},
		{Unit: 'b'}, {Unit: 'b', Up: true},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestEncode_NonASCII(t *testing.T) {
	// 5 runes, all in the BMP: 10 events.
	if got := len(Encode("héllo")); got != 10 {
		t.Errorf("Encode(héllo) produced %d events, want 10", got)
	}
}

func TestEncode_SurrogatePair(t *testing.T) {
	// U+1D11E is outside the BMP: two code units, four events.
	events := Encode("\U0001D11E")
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Unit != 0xD834 || events[2].Unit != 0xDD1E {
		t.Errorf("surrogate units = 0x%04X, 0x%04X; want 0xD834, 0xDD1E",
			events[0].Unit, events[2].Unit)
	}
	if events[0].Up || !events[1].Up || events[2].Up || !events[3].Up {
		t.Error("events are not in press/release order")
	}
}

func TestSendText_EmptyIsNoop(t *testing.T) {
	sender := &fakeSender{accepts: []int{0}}
	res := New(sender).SendText("", DefaultOptions())

	if res.Attempts != 0 || len(sender.batches) != 0 {
		t.Errorf("empty text made %d attempts, want 0", len(sender.batches))
	}
	if res.Succeeded() {
		t.Error("empty result must not report success")
	}
}

func TestSendText_FullAcceptanceSingleAttempt(t *testing.T) {
	sender := &fakeSender{accepts: []int{10}}
	res := New(sender).SendText("héllo", Options{RetryCount: 3})

	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if res.Expected != 10 || res.Accepted != 10 {
		t.Errorf("accepted/expected = %d/%d, want 10/10", res.Accepted, res.Expected)
	}
	if !res.Succeeded() {
		t.Error("full acceptance must succeed")
	}
}

func TestSendText_PersistentShortfallExhaustsRetries(t *testing.T) {
	sender := &fakeSender{accepts: []int{6}}
	res := New(sender).SendText("héllo", Options{RetryCount: 3})

	if res.Attempts != 4 {
		t.Errorf("attempts = %d, want retryCount+1 = 4", res.Attempts)
	}
	if res.Accepted != 6 || res.Expected != 10 {
		t.Errorf("accepted/expected = %d/%d, want 6/10", res.Accepted, res.Expected)
	}
	if res.Succeeded() {
		t.Error("shortfall must not report success")
	}

	// Every retry resends the complete batch, never the remainder.
	for i, batch := range sender.batches {
		if len(batch) != 10 {
			t.Errorf("attempt %d sent %d events, want the full 10", i+1, len(batch))
		}
	}
}

func TestSendText_RecoversOnLaterAttempt(t *testing.T) {
	sender := &fakeSender{accepts: []int{4, 10}}
	res := New(sender).SendText("héllo", Options{RetryCount: 3})

	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
	if !res.Succeeded() {
		t.Error("full acceptance on retry must succeed")
	}
}

func TestSendText_SenderErrorCountsAsAttempt(t *testing.T) {
	sender := &fakeSender{
		accepts: []int{0, 10},
		errs:    []error{errors.New("input blocked")},
	}
	res := New(sender).SendText("hi", Options{RetryCount: 1})

	if res.Attempts != 2 || !res.Succeeded() {
		t.Errorf("got attempts=%d succeeded=%v, want 2/true", res.Attempts, res.Succeeded())
	}
}

func TestSendText_ZeroRetries(t *testing.T) {
	sender := &fakeSender{accepts: []int{1}}
	res := New(sender).SendText("hi", Options{})

	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 with zero retries", res.Attempts)
	}
}
