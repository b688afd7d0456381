package authclient

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pocketledger/authclient/storage"
)

// Store is the single source of truth for the session snapshot. All
// mutators are synchronous and perform no network access; mutations that
// touch identity fields (user, token, authenticated flag) are persisted
// to the durable slot before subscribers are notified.
//
// Concurrent mutators serialize on an internal mutex, so the loading and
// error flags follow last-write-wins under overlapping operations. That
// matches the client's request-lifecycle contract; see [Client].
type Store struct {
	mu   sync.Mutex
	snap Snapshot
	slot storage.Slot
	subs []Subscriber

	// ioMu serializes persistence and subscriber notification in the
	// same order mutations were applied. It is acquired while mu is
	// still held, so two racing identity mutations cannot persist out
	// of order and leave the slot holding the older snapshot.
	ioMu sync.Mutex

	persistErr func(error)
}

// NewStore creates a store bound to slot and rehydrates the snapshot from
// it. An absent or corrupt slot degrades to the unauthenticated default;
// rehydration never fails. slot may be nil for a purely in-memory session.
func NewStore(slot storage.Slot) *Store {
	s := &Store{slot: slot}
	s.snap = rehydrate(slot)
	return s
}

// rehydrate loads and decodes the persisted snapshot. Any failure — empty
// slot, unreachable backend, malformed JSON, or a snapshot violating the
// identity invariant — yields the empty session.
func rehydrate(slot storage.Slot) Snapshot {
	if slot == nil {
		return Snapshot{}
	}
	data, err := slot.Load(context.Background())
	if err != nil {
		return Snapshot{}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}
	}
	if snap.IsAuthenticated && (snap.User == nil || snap.Token == "") {
		return Snapshot{}
	}
	// Transient request-lifecycle fields never survive a restart.
	snap.Loading = false
	snap.AuthError = ""
	return snap
}

// OnPersistError installs a hook invoked when a slot write fails. The
// mutation itself still applies; persistence failure never rolls back
// in-memory state. Must be called before the store is shared.
func (s *Store) OnPersistError(fn func(error)) {
	s.persistErr = fn
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.snap)
}

// Subscribe registers fn to observe every subsequent mutation. It returns
// an unsubscribe function. Callbacks run synchronously on the mutating
// goroutine and must not mutate the store.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.subs) {
			s.subs[idx] = nil
		}
	}
}

// SetAuthData installs the authenticated identity: user and token are
// set, the authenticated flag raised, and any previous failure message
// cleared before the new state is visible. The snapshot is persisted.
func (s *Store) SetAuthData(user User, token string) {
	s.mutate(true, func(snap *Snapshot) {
		u := user
		snap.User = &u
		snap.Token = token
		snap.IsAuthenticated = true
		snap.AuthError = ""
	})
}

// ClearAuthData resets the session to the unauthenticated shape and
// overwrites the persisted snapshot to match. The failure message is not
// touched here; the operation lifecycle owns it and clears it on success.
func (s *Store) ClearAuthData() {
	s.mutate(true, func(snap *Snapshot) {
		snap.User = nil
		snap.Token = ""
		snap.IsAuthenticated = false
	})
}

// SetUser replaces the session user record, clearing any previous failure
// message. The token and authenticated flag are untouched. Persisted.
func (s *Store) SetUser(user User) {
	s.mutate(true, func(snap *Snapshot) {
		u := user
		snap.User = &u
		snap.AuthError = ""
	})
}

// SetLoading sets the transient loading flag. Not persisted.
func (s *Store) SetLoading(loading bool) {
	s.mutate(false, func(snap *Snapshot) {
		snap.Loading = loading
	})
}

// SetError sets the transient failure message; the empty string clears
// it. Not persisted.
func (s *Store) SetError(message string) {
	s.mutate(false, func(snap *Snapshot) {
		snap.AuthError = message
	})
}

// SetIsAuthenticated overrides the authenticated flag directly. This is
// an escape hatch: callers are responsible for keeping the flag
// consistent with the presence of user and token. Persisted.
func (s *Store) SetIsAuthenticated(authenticated bool) {
	s.mutate(true, func(snap *Snapshot) {
		snap.IsAuthenticated = authenticated
	})
}

func (s *Store) mutate(persist bool, apply func(*Snapshot)) {
	s.mu.Lock()
	apply(&s.snap)
	snap := cloneSnapshot(s.snap)
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.ioMu.Lock()
	s.mu.Unlock()
	defer s.ioMu.Unlock()

	if persist && s.slot != nil {
		data, err := json.Marshal(snap)
		if err == nil {
			err = s.slot.Save(context.Background(), data)
		}
		if err != nil && s.persistErr != nil {
			s.persistErr(err)
		}
	}

	for _, fn := range subs {
		if fn != nil {
			fn(snap)
		}
	}
}

func cloneSnapshot(snap Snapshot) Snapshot {
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}
