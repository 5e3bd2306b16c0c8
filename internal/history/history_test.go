package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{
		Timestamp:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DocumentCount: 4,
		IncludeEdges:  3,
		FunctionCount: 17,
		ErrorCount:    2,
		WarningCount:  5,
		ParseMillis:   1.25,
	}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshots(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	if got[0].RunID == "" {
		t.Error("expected a generated run id")
	}
	if got[0].DocumentCount != 4 || got[0].FunctionCount != 17 {
		t.Errorf("counts lost in round trip: %+v", got[0])
	}
	if !got[0].Timestamp.Equal(snap.Timestamp) {
		t.Errorf("timestamp lost: %v", got[0].Timestamp)
	}
	if got[0].SchemaVersion != SchemaVersion {
		t.Errorf("expected schema version %d, got %d", SchemaVersion, got[0].SchemaVersion)
	}
}

func TestStore_SinceFilter(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.SaveSnapshot(Snapshot{Timestamp: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.LoadSnapshots(base.Add(90 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 snapshot after the cutoff, got %d", len(got))
	}
}

func TestStore_UpsertByRunID(t *testing.T) {
	store := openTestStore(t)

	snap := Snapshot{RunID: "fixed", DocumentCount: 1}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	snap.DocumentCount = 9
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshots(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected upsert, got %d rows", len(got))
	}
	if got[0].DocumentCount != 9 {
		t.Errorf("expected updated count 9, got %d", got[0].DocumentCount)
	}
}

func TestStore_RejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{Timestamp: base, DocumentCount: 10, ErrorCount: 4, WarningCount: 2},
		{Timestamp: base.Add(time.Hour), DocumentCount: 12, ErrorCount: 2, WarningCount: 2},
		{Timestamp: base.Add(2 * time.Hour), DocumentCount: 12, ErrorCount: 0, WarningCount: 6},
	}

	report, err := BuildTrendReport(snapshots, 2*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if report.ScanCount != 3 {
		t.Fatalf("expected 3 points, got %d", report.ScanCount)
	}

	p := report.Points[1]
	if p.DeltaDocuments != 2 {
		t.Errorf("expected document delta +2, got %d", p.DeltaDocuments)
	}
	if p.DeltaErrors != -2 {
		t.Errorf("expected error delta -2, got %d", p.DeltaErrors)
	}
	if p.AvgErrors != 3 {
		t.Errorf("expected moving average 3, got %v", p.AvgErrors)
	}

	last := report.Points[2]
	if last.AvgErrors != 2 {
		t.Errorf("expected window average 2, got %v", last.AvgErrors)
	}
	if last.DeltaWarnings != 4 {
		t.Errorf("expected warning delta +4, got %d", last.DeltaWarnings)
	}
}

func TestBuildTrendReport_Empty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty snapshot list")
	}
}
