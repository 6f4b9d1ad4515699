package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sample(id string, success bool) *Injection {
	return &Injection{
		SessionID:          id,
		CharacterCount:     5,
		CodeUnitCount:      5,
		EventsExpected:     10,
		EventsAccepted:     10,
		Attempts:           1,
		Success:            success,
		FocusRestored:      true,
		CaptureDurationMs:  1200,
		InjectionLatencyMs: 40,
	}
}

func TestSaveAndGetInjections(t *testing.T) {
	db := openTestDB(t)

	inj := sample("abc-123", true)
	if err := db.SaveInjection(inj); err != nil {
		t.Fatalf("SaveInjection: %v", err)
	}
	if inj.ID == 0 {
		t.Error("SaveInjection did not set the row ID")
	}

	got, err := db.GetInjections(10, 0)
	if err != nil {
		t.Fatalf("GetInjections: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].SessionID != "abc-123" || got[0].EventsExpected != 10 || !got[0].Success {
		t.Errorf("row mismatch: %+v", got[0])
	}
}

func TestDeleteInjection(t *testing.T) {
	db := openTestDB(t)

	inj := sample("to-delete", true)
	if err := db.SaveInjection(inj); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteInjection(inj.ID); err != nil {
		t.Fatalf("DeleteInjection: %v", err)
	}
	if err := db.DeleteInjection(inj.ID); err == nil {
		t.Error("deleting a missing row must error")
	}

	count, err := db.GetInjectionCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d after delete, want 0", count)
	}
}

func TestOverallStats(t *testing.T) {
	db := openTestDB(t)

	ok := sample("s1", true)
	if err := db.SaveInjection(ok); err != nil {
		t.Fatal(err)
	}
	failed := sample("s2", false)
	failed.EventsAccepted = 6
	failed.Attempts = 4
	failed.FocusRestored = false
	if err := db.SaveInjection(failed); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetOverallStats(7)
	if err != nil {
		t.Fatalf("GetOverallStats: %v", err)
	}
	if stats.TotalInjections != 2 || stats.SuccessCount != 1 || stats.FailureCount != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalEventsExpected != 20 || stats.TotalEventsAccepted != 16 {
		t.Errorf("events = %d/%d, want 16/20", stats.TotalEventsAccepted, stats.TotalEventsExpected)
	}
	if stats.FocusRestoreFailures != 1 {
		t.Errorf("focus restore failures = %d, want 1", stats.FocusRestoreFailures)
	}
}

func TestDailyStats(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := db.SaveInjection(sample("s", i != 0)); err != nil {
			t.Fatal(err)
		}
	}

	daily, err := db.GetDailyStats(7)
	if err != nil {
		t.Fatalf("GetDailyStats: %v", err)
	}
	if len(daily) != 1 {
		t.Fatalf("got %d days, want 1", len(daily))
	}
	if daily[0].TotalInjections != 3 || daily[0].FailureCount != 1 {
		t.Errorf("daily = %+v", daily[0])
	}
}
