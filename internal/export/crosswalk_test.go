package export

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCrosswalk() *Crosswalk {
	players := newFrame([]string{"gsis_id", "pfr_id", "full_name"},
		[]string{"00-001", "SmitJo01", "John Smith"},
		[]string{"00-002", "DoeJa02", "Jane Doe"},
		[]string{"", "GhosPl03", "Ghost Player"},
	)
	return NewCrosswalk(players, discardLogger())
}

func TestResolvePrefersDirectColumn(t *testing.T) {
	f := newFrame([]string{"gsis_id", "pfr_player_id"},
		[]string{"00-009", "SmitJo01"},
	)
	got, ok := testCrosswalk().Resolve(f, "t", "gsis_id", "pfr_player_id", "player")
	if !ok {
		t.Fatal("Resolve failed")
	}
	if v := got.Row(0).Get("playerID"); v != "00-009" {
		t.Errorf("playerID = %q, want the direct identifier 00-009", v)
	}
}

func TestResolveViaAlternateIdentifier(t *testing.T) {
	f := newFrame([]string{"pfr_player_id", "player"},
		[]string{"DoeJa02", "Jane Doe"},
		[]string{"NoboSo04", "Unknown Player"},
	)
	got, ok := testCrosswalk().Resolve(f, "t", "gsis_id", "pfr_player_id", "player")
	if !ok {
		t.Fatal("Resolve failed")
	}
	if v := got.Row(0).Get("playerID"); v != "00-002" {
		t.Errorf("mapped playerID = %q, want 00-002", v)
	}
	if v := got.Row(1).Get("playerID"); v != "" {
		t.Errorf("unmapped playerID = %q, want null", v)
	}
}

func TestResolveViaFullName(t *testing.T) {
	f := newFrame([]string{"player"},
		[]string{"John Smith"},
	)
	got, ok := testCrosswalk().Resolve(f, "t", "gsis_id", "pfr_player_id", "player")
	if !ok {
		t.Fatal("Resolve failed")
	}
	if v := got.Row(0).Get("playerID"); v != "00-001" {
		t.Errorf("name-mapped playerID = %q, want 00-001", v)
	}
}

func TestResolveNoPath(t *testing.T) {
	f := newFrame([]string{"jersey"}, []string{"15"})
	_, ok := testCrosswalk().Resolve(f, "t", "gsis_id", "pfr_player_id", "player")
	if ok {
		t.Error("Resolve succeeded with no join path")
	}
}
