package storage

import (
	"testing"
	"time"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if !prefs.UseBook {
		t.Error("book should be enabled by default")
	}
	if prefs.UseExplorer {
		t.Error("online explorer should be opt-in")
	}
	if prefs.MoveTimeMs <= 0 {
		t.Error("default move time should be positive")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStorage(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if !prefs.UseBook {
		t.Error("empty store should return defaults")
	}

	prefs.UseExplorer = true
	prefs.MoveTimeMs = 1500
	prefs.BookFile = "book.bin"
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if !loaded.UseExplorer || loaded.MoveTimeMs != 1500 || loaded.BookFile != "book.bin" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
	if loaded.LastPlayed.IsZero() {
		t.Error("save should stamp LastPlayed")
	}
}

func TestFirstRun(t *testing.T) {
	s := openTestStorage(t)

	first, err := s.IsFirstRun()
	if err != nil {
		t.Fatalf("IsFirstRun: %v", err)
	}
	if !first {
		t.Error("fresh store should report first run")
	}

	if err := s.MarkFirstRunComplete(); err != nil {
		t.Fatalf("MarkFirstRunComplete: %v", err)
	}

	first, err = s.IsFirstRun()
	if err != nil {
		t.Fatalf("IsFirstRun: %v", err)
	}
	if first {
		t.Error("first run should be complete after marking")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTestStorage(t)

	games := []GameResult{
		{Winner: "white", Plies: 60, Nodes: 1000, ThinkTime: time.Second},
		{Winner: "black", Plies: 82, Nodes: 2000, ThinkTime: 2 * time.Second},
		{Winner: "draw", Plies: 120, Nodes: 3000, ThinkTime: 3 * time.Second},
	}
	for _, g := range games {
		if err := s.RecordGame(g); err != nil {
			t.Fatalf("RecordGame: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 3 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Draws != 1 {
		t.Errorf("stats mismatch: %+v", stats)
	}
	if stats.TotalNodes != 6000 {
		t.Errorf("TotalNodes = %d, want 6000", stats.TotalNodes)
	}
	if stats.LongestPlies != 120 {
		t.Errorf("LongestPlies = %d, want 120", stats.LongestPlies)
	}
	if stats.TotalThink != 6*time.Second {
		t.Errorf("TotalThink = %v, want 6s", stats.TotalThink)
	}
}
