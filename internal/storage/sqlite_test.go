package storage

import (
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestHistoryTableExists verifies the history table and its index are created.
func TestHistoryTableExists(t *testing.T) {
	s := openTestStore(t)

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='history'").Scan(&count); err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if count != 1 {
		t.Fatal("history table not found")
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_history_created'").Scan(&count); err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if count != 1 {
		t.Error("idx_history_created not found")
	}
}

// TestSaveAndListHistory saves a record and verifies list returns it with
// matching fields and the id returned by the save.
func TestSaveAndListHistory(t *testing.T) {
	s := openTestStore(t)

	want := Record{
		Name:           "Kim",
		Dealer:         "마이스터모터스",
		Showroom:       "강남대치",
		ImageFront:     "data:image/png;base64,AAA=",
		ImageSide:      "data:image/png;base64,BBB=",
		ImageFull:      "data:image/png;base64,CCC=",
		BackgroundType: "solid",
	}

	id, err := s.SaveHistory(want)
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveHistory returned id %d, want positive", id)
	}

	records, err := s.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	got := records[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.Name != want.Name || got.Dealer != want.Dealer || got.Showroom != want.Showroom {
		t.Errorf("metadata mismatch: got %+v", got)
	}
	if got.ImageFront != want.ImageFront || got.ImageSide != want.ImageSide || got.ImageFull != want.ImageFull {
		t.Errorf("image payload mismatch: got %+v", got)
	}
	if got.BackgroundType != want.BackgroundType {
		t.Errorf("BackgroundType = %q, want %q", got.BackgroundType, want.BackgroundType)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned on insert")
	}
}

// TestListHistoryEmpty verifies an empty table yields an empty slice, not an error.
func TestListHistoryEmpty(t *testing.T) {
	s := openTestStore(t)

	records, err := s.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

// TestListHistoryOrdering inserts records with controlled timestamps out of
// chronological order and verifies the list is sorted by created_at descending.
func TestListHistoryOrdering(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	names := []struct {
		name   string
		offset time.Duration
	}{
		{"middle", 1 * time.Hour},
		{"newest", 2 * time.Hour},
		{"oldest", 0},
	}
	for _, n := range names {
		if _, err := s.SaveHistory(Record{
			Name: n.name, Dealer: "지엔비", Showroom: "대구",
			BackgroundType: "solid", CreatedAt: base.Add(n.offset),
		}); err != nil {
			t.Fatalf("SaveHistory(%s): %v", n.name, err)
		}
	}

	records, err := s.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if records[i].Name != want {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, want)
		}
	}
}

// TestIDsMonotonic verifies ids increase across inserts and are not reused after delete.
func TestIDsMonotonic(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.SaveHistory(Record{Name: "a", Dealer: "지오하우스", Showroom: "전주"})
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if err := s.DeleteHistory(id1); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	id2, err := s.SaveHistory(Record{Name: "b", Dealer: "지오하우스", Showroom: "광주"})
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("id2 = %d, want > %d", id2, id1)
	}
}

// TestDeleteHistory verifies delete succeeds exactly once for a given id.
func TestDeleteHistory(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveHistory(Record{Name: "Kim", Dealer: "클라쎄오토", Showroom: "일산"})
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	if err := s.DeleteHistory(id); err != nil {
		t.Fatalf("first DeleteHistory: %v", err)
	}
	err = s.DeleteHistory(id)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteHistory = %v, want ErrNotFound", err)
	}
}

// TestDeleteHistoryMissing verifies deleting an id that never existed reports not found.
func TestDeleteHistoryMissing(t *testing.T) {
	s := openTestStore(t)

	err := s.DeleteHistory(999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteHistory(999999) = %v, want ErrNotFound", err)
	}
}

// TestCountHistory verifies the count tracks inserts and deletes.
func TestCountHistory(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.SaveHistory(Record{Name: "n", Dealer: "아우토플라츠", Showroom: "송파"}); err != nil {
			t.Fatalf("SaveHistory: %v", err)
		}
	}
	n, err := s.CountHistory()
	if err != nil {
		t.Fatalf("CountHistory: %v", err)
	}
	if n != 3 {
		t.Errorf("CountHistory = %d, want 3", n)
	}
}
