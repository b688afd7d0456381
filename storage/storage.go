package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotEmpty is returned by Load when the slot holds no snapshot.
var ErrSlotEmpty = errors.New("storage: slot empty")

// Slot is a single durable key-value cell holding the serialized session
// snapshot. Save overwrites the previous value; Clear makes subsequent
// Loads return [ErrSlotEmpty]. Implementations must be safe for
// concurrent use.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Memory is an in-process [Slot]. It is the default backend and the one
// used by tests; contents do not survive a restart.
type Memory struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemory creates an empty in-process slot.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored bytes or [ErrSlotEmpty].
func (m *Memory) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save overwrites the slot contents.
func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	return nil
}

// Clear empties the slot.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
