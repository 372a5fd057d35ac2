package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/talgya/narivia/internal/engine"
	"github.com/talgya/narivia/internal/persistence"
	"github.com/talgya/narivia/internal/social"
	"github.com/talgya/narivia/internal/world"
	"github.com/talgya/narivia/internal/worldtest"
)

func fixture() worldtest.Source {
	return worldtest.Source{"isles": {
		Map:    []string{"aab", "ccb", "ddd"},
		Owners: map[string]string{"a": "f1", "b": "f2", "c": "f3", "d": "f3"},
		Holdings: []social.Holding{
			{ID: "h1", RegionID: "a"},
			{ID: "h2", RegionID: "d", Type: social.HoldingCastle},
		},
		Meta: world.Meta{StartingWealth: 200, StartingTroops: 12, HoldingsPrice: 50, HoldingSlotsPerFaction: 3},
	}}
}

// playedGame returns a session that has advanced a few turns.
func playedGame(t *testing.T, src worldtest.Source) *engine.Game {
	t.Helper()
	g, err := engine.NewGame(context.Background(), src, "isles", "f1", engine.Config{})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.BuildHolding("h1", social.HoldingTemple); err != nil {
		t.Fatalf("BuildHolding: %v", err)
	}
	for range 3 {
		if _, err := g.NextTurn(); err != nil {
			t.Fatalf("NextTurn: %v", err)
		}
	}
	return g
}

func openDB(t *testing.T) *persistence.DB {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "narivia.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveGame_RoundTrip(t *testing.T) {
	t.Parallel()

	src := fixture()
	g := playedGame(t, src)
	db := openDB(t)

	if err := db.SaveGame(g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := db.LoadState(g.SessionID)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if want := g.State(); !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded state differs\n got: %+v\nwant: %+v", got, want)
	}

	restored, err := engine.Restore(context.Background(), src, got, engine.Config{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(restored.State(), g.State()) {
		t.Fatal("restored game differs from the saved one")
	}

	last, err := db.GetMeta("last_session")
	if err != nil || last != g.SessionID {
		t.Fatalf("last_session = %q, %v", last, err)
	}
}

func TestSaveGame_ReplacesPreviousSave(t *testing.T) {
	t.Parallel()

	g := playedGame(t, fixture())
	db := openDB(t)

	if err := db.SaveGame(g); err != nil {
		t.Fatal(err)
	}
	if _, err := g.NextTurn(); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveGame(g); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadState(g.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Turn != g.Turn {
		t.Fatalf("turn = %d, want %d", got.Turn, g.Turn)
	}
	if len(got.Armies) != len(g.State().Armies) {
		t.Fatalf("armies = %d rows, want %d", len(got.Armies), len(g.State().Armies))
	}

	sessions, err := db.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != g.SessionID || sessions[0].Turn != g.Turn {
		t.Fatalf("sessions = %+v", sessions)
	}
	if sessions[0].SavedAt.IsZero() {
		t.Fatal("saved_at not parsed")
	}
}

func TestLoadState_UnknownSession(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	if _, err := db.LoadState("missing"); !errors.Is(err, persistence.ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSession(t *testing.T) {
	t.Parallel()

	g := playedGame(t, fixture())
	db := openDB(t)
	if err := db.SaveGame(g); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSession(g.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := db.LoadState(g.SessionID); !errors.Is(err, persistence.ErrSessionNotFound) {
		t.Fatalf("got %v after delete", err)
	}
	events, err := db.RecentEvents(g.SessionID, 10)
	if err != nil || len(events) != 0 {
		t.Fatalf("events after delete = %v, %v", events, err)
	}
	if _, err := db.GetMeta("last_session"); err == nil {
		t.Fatal("last_session still names the deleted session")
	}
	if err := db.DeleteSession(g.SessionID); !errors.Is(err, persistence.ErrSessionNotFound) {
		t.Fatalf("second delete = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveGame_RestoredSessionKeepsEventLog(t *testing.T) {
	t.Parallel()

	src := fixture()
	g := playedGame(t, src)
	db := openDB(t)
	if err := db.SaveGame(g); err != nil {
		t.Fatal(err)
	}
	saved := len(g.RecentEvents(0))
	if saved == 0 {
		t.Fatal("played game recorded no events")
	}

	s, err := db.LoadState(g.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := engine.Restore(context.Background(), src, s, engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(restored.RecentEvents(0)); got != saved {
		t.Fatalf("events after restore = %d, want %d", got, saved)
	}

	if err := db.SaveGame(restored); err != nil {
		t.Fatal(err)
	}
	stored, err := db.RecentEvents(g.SessionID, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != saved {
		t.Fatalf("stored events after restore and save = %d, want %d", len(stored), saved)
	}
}

func TestRecentEvents_NewestFirst(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	events := []engine.Event{
		{Turn: 1, Description: "first", Category: "attack"},
		{Turn: 2, Description: "second", Category: "build"},
		{Turn: 3, Description: "third", Category: "elimination"},
	}
	if err := db.SaveState(engine.State{SessionID: "s1", WorldID: "isles", Events: events}); err != nil {
		t.Fatal(err)
	}

	got, err := db.RecentEvents("s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []engine.Event{events[2], events[1]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	g := playedGame(t, fixture())
	path := filepath.Join(t.TempDir(), "snapshots", g.SessionID+".zst")

	if err := persistence.WriteSnapshot(path, g.State()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	hdr, err := persistence.ReadSnapshotHeader(path)
	if err != nil {
		t.Fatalf("ReadSnapshotHeader: %v", err)
	}
	if hdr.Version != persistence.SnapshotVersion || hdr.SessionID != g.SessionID || hdr.Turn != g.Turn {
		t.Fatalf("header = %+v", hdr)
	}

	_, got, err := persistence.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if want := g.State(); !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot state differs\n got: %+v\nwant: %+v", got, want)
	}
}

func TestListSnapshots(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "snapshots")
	headers, err := persistence.ListSnapshots(dir)
	if err != nil || len(headers) != 0 {
		t.Fatalf("missing dir = %v, %v", headers, err)
	}

	g := playedGame(t, fixture())
	if err := persistence.WriteSnapshot(filepath.Join(dir, g.SessionID+persistence.SnapshotExt), g.State()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk"+persistence.SnapshotExt), []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	headers, err = persistence.ListSnapshots(dir)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(headers) != 1 || headers[0].SessionID != g.SessionID {
		t.Fatalf("headers = %+v", headers)
	}
}
