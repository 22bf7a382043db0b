package cache

import (
	"testing"
	"time"

	"github.com/kalambet/photostudio/internal/storage"
)

func testRecord(id int64, name string) storage.Record {
	return storage.Record{
		ID:             id,
		Name:           name,
		Dealer:         "마이스터모터스",
		Showroom:       "강남대치",
		ImageFront:     "data:image/png;base64,AAA=",
		ImageSide:      "data:image/png;base64,BBB=",
		ImageFull:      "data:image/png;base64,CCC=",
		BackgroundType: "solid",
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := New(t.TempDir())

	records, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	c := New(t.TempDir())

	want := []storage.Record{testRecord(2, "b"), testRecord(1, "a")}
	if err := c.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("order not preserved: %v, %v", got[0].ID, got[1].ID)
	}
	if got[0].ImageFront != want[0].ImageFront || !got[0].CreatedAt.Equal(want[0].CreatedAt) {
		t.Errorf("record fields not preserved: %+v", got[0])
	}
}

func TestSaveOverwrites(t *testing.T) {
	c := New(t.TempDir())

	if err := c.Save([]storage.Record{testRecord(1, "a"), testRecord(2, "b")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save([]storage.Record{testRecord(3, "c")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("Save did not replace the whole list: %+v", got)
	}
}

func TestPrepend(t *testing.T) {
	c := New(t.TempDir())

	if err := c.Prepend(testRecord(1, "old")); err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	if err := c.Prepend(testRecord(2, "new")); err != nil {
		t.Fatalf("Prepend: %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Name != "new" || got[1].Name != "old" {
		t.Errorf("prepend order wrong: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestRemove(t *testing.T) {
	c := New(t.TempDir())

	if err := c.Save([]storage.Record{testRecord(1, "a"), testRecord(2, "b")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	removed, err := c.Remove(1)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("Remove(1) = false, want true")
	}

	removed, err = c.Remove(1)
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if removed {
		t.Error("second Remove(1) = true, want false")
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("unexpected remaining records: %+v", got)
	}
}
