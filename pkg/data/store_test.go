package data

import (
	"testing"
	"time"

	"github.com/savid/radioinfo/pkg/schedule"
)

func testSnapshot(runID string) *Snapshot {
	result := newResult(1)
	result.Programs[164] = []schedule.Program{}
	return NewSnapshot(runID, time.Now(), []schedule.Channel{{ID: 164, Name: "P3"}}, result)
}

func TestStoreOperations(t *testing.T) {
	store := NewStore()

	// Test initial state
	if store.HasData() {
		t.Error("New store should not have data")
	}

	if _, ok := store.Get(); ok {
		t.Error("Get should return false when no data")
	}

	first := testSnapshot("first")
	store.Set(first)

	got, ok := store.Get()
	if !ok {
		t.Fatal("Get should return true after setting data")
	}
	if got != first {
		t.Error("Expected the stored snapshot back")
	}
	if !store.HasData() {
		t.Error("Store should report having data")
	}

	// A later snapshot replaces the earlier one wholesale.
	second := testSnapshot("second")
	store.Set(second)
	got, _ = store.Get()
	if got.RunID != "second" {
		t.Errorf("Expected second snapshot, got %s", got.RunID)
	}
	if first.RunID != "first" {
		t.Error("Earlier snapshot must not be modified")
	}

	if time.Since(store.LastSync()) > time.Second {
		t.Error("LastSync should be recent")
	}
}

func TestStoreConcurrency(_ *testing.T) {
	store := NewStore()
	done := make(chan bool)

	// Concurrent writes
	go func() {
		for i := 0; i < 100; i++ {
			store.Set(testSnapshot("writer"))
		}
		done <- true
	}()

	// Concurrent reads
	go func() {
		for i := 0; i < 100; i++ {
			if snapshot, ok := store.Get(); ok {
				_, _ = snapshot.ChannelID("P3")
			}
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			store.HasData()
			store.LastSync()
		}
		done <- true
	}()

	// Wait for all goroutines
	for i := 0; i < 3; i++ {
		<-done
	}
}
