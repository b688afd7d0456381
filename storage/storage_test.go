package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// slotContract exercises the behavior every Slot must share: round trip,
// overwrite, ErrSlotEmpty before the first Save and after Clear, and
// idempotent Clear.
func slotContract(t *testing.T, slot Slot) {
	t.Helper()
	ctx := context.Background()

	if _, err := slot.Load(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("fresh slot must be empty, got %v", err)
	}

	if err := slot.Save(ctx, []byte(`{"token":"abc"}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, []byte(`{"token":"abc"}`)) {
		t.Fatalf("round trip mismatch: %q", data)
	}

	if err := slot.Save(ctx, []byte(`{"token":"def"}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, err = slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load after overwrite failed: %v", err)
	}
	if !bytes.Equal(data, []byte(`{"token":"def"}`)) {
		t.Fatalf("overwrite mismatch: %q", data)
	}

	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := slot.Load(ctx); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("cleared slot must be empty, got %v", err)
	}
	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("clearing an empty slot must succeed, got %v", err)
	}
}

func TestMemorySlot(t *testing.T) {
	slotContract(t, NewMemory())
}

func TestMemorySlotCopiesData(t *testing.T) {
	ctx := context.Background()
	slot := NewMemory()

	in := []byte(`{"token":"abc"}`)
	if err := slot.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	in[0] = 'X'

	out, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out[0] != '{' {
		t.Fatal("slot must not alias the caller's buffer")
	}
	out[0] = 'X'

	again, err := slot.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if again[0] != '{' {
		t.Fatal("loaded bytes must not alias the slot's buffer")
	}
}
