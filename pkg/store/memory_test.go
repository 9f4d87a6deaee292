package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	ds := &Dataset{
		ID:        "ds1",
		Name:      "family.ged",
		Data:      []byte("0 HEAD\n0 TRLR\n"),
		Hash:      "abc",
		Persons:   10,
		Families:  4,
		CreatedAt: time.Now(),
	}
	if err := s.Put(ctx, ds); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "ds1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "family.ged" || got.Persons != 10 || string(got.Data) != "0 HEAD\n0 TRLR\n" {
		t.Errorf("Get() = %+v, want stored dataset", got)
	}

	// Stored copy is independent of the caller's struct
	ds.Name = "changed"
	got, _ = s.Get(ctx, "ds1")
	if got.Name != "family.ged" {
		t.Errorf("stored dataset mutated through caller reference: Name = %q", got.Name)
	}

	if err := s.Delete(ctx, "ds1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "ds1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() on missing error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		err := s.Put(ctx, &Dataset{
			ID:        id,
			Data:      []byte("payload"),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() len = %d, want 3", len(list))
	}

	// Ordered by creation time, data omitted
	wantOrder := []string{"c", "a", "b"}
	for i, ds := range list {
		if ds.ID != wantOrder[i] {
			t.Errorf("List()[%d].ID = %q, want %q", i, ds.ID, wantOrder[i])
		}
		if ds.Data != nil {
			t.Errorf("List()[%d].Data populated, want nil", i)
		}
	}
}
