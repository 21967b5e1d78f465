package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"rostersearch/internal/record"
)

func openTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := OpenSnapshot(filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("OpenSnapshot error: %v", err)
	}
	t.Cleanup(func() { snap.Close() })
	return snap
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := openTestSnapshot(t)

	ds := &record.Dataset{Records: []record.Raw{
		{Name: "Alice Johnson", HomeOrg: "OSU - Medical Center", Roles: []string{"Research Assistant"}, TotalPay: 52000},
		{Name: "Bob Anderson", HomeOrg: "Athletics", Roles: []string{"Assistant Coach"}, IsActive: true},
	}}

	if err := snap.Save(ds, "https://example.org/index.json"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, source, err := snap.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if source != "https://example.org/index.json" {
		t.Errorf("source = %q", source)
	}
	if !reflect.DeepEqual(got.Records, ds.Records) {
		t.Errorf("restored records differ:\n got %+v\nwant %+v", got.Records, ds.Records)
	}
}

func TestSnapshotSaveReplaces(t *testing.T) {
	snap := openTestSnapshot(t)

	first := &record.Dataset{Records: []record.Raw{{Name: "Alice"}, {Name: "Bob"}}}
	second := &record.Dataset{Records: []record.Raw{{Name: "Zed"}}}

	if err := snap.Save(first, "a"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := snap.Save(second, "b"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, source, err := snap.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].Name != "Zed" || source != "b" {
		t.Errorf("got %d records from %q", len(got.Records), source)
	}

	epoch, err := snap.Epoch()
	if err != nil || epoch != 2 {
		t.Errorf("Epoch = %d,%v, want 2", epoch, err)
	}
}

func TestSnapshotLoadEmpty(t *testing.T) {
	snap := openTestSnapshot(t)
	if _, _, err := snap.Load(); err == nil {
		t.Error("Load of an empty snapshot should fail")
	}
}
