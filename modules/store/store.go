package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// DefaultDebounce coalesces rapid successive mutations into one write.
const DefaultDebounce = 300 * time.Millisecond

// Store is the ordered in-memory gallery, mirrored to one durable slot.
// It is constructed and injected by the composition root, never a package
// singleton, so tests get isolated instances.
type Store struct {
	mu        sync.Mutex
	images    []ImageRecord
	listeners []listenerEntry
	nextSubID int

	persister Persister
	debounce  time.Duration
	timer     *time.Timer
}

type listenerEntry struct {
	id int
	fn Listener
}

// Option tweaks store construction.
type Option func(*Store)

// WithDebounce overrides the persistence quiet period.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// New builds a store and hydrates it from the persisted slot. A missing or
// corrupt slot degrades to an empty gallery, never a failure.
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		debounce:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.persister.Load(context.Background())
	if err != nil {
		log.Printf("⚠️ [Store] Failed to load persisted gallery: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var images []ImageRecord
	if err := json.Unmarshal(data, &images); err != nil {
		log.Printf("⚠️ [Store] Corrupt persisted gallery, starting empty: %v", err)
		return
	}
	s.images = images
	log.Printf("📂 [Store] Loaded %d image(s) from persisted gallery", len(images))
}

// AddImage prepends the record (newest first) and notifies subscribers.
func (s *Store) AddImage(record ImageRecord) {
	s.mu.Lock()
	s.images = append([]ImageRecord{record}, s.images...)
	s.schedulePersistLocked()
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	notify(listeners, Event{Type: EventAdded, Record: &record})
}

// RemoveImage removes the first record with a matching id. A miss is a
// no-op: no persistence, no notification.
func (s *Store) RemoveImage(id string) {
	s.mu.Lock()
	index := -1
	for i, record := range s.images {
		if record.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.images[index]
	s.images = append(s.images[:index], s.images[index+1:]...)
	s.schedulePersistLocked()
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	notify(listeners, Event{Type: EventRemoved, Record: &removed})
}

// ClearAll empties the gallery and persists synchronously, cancelling any
// pending debounced write so a stale write cannot resurrect cleared state.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.images = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	data := s.serializeLocked()
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	s.write(data)
	notify(listeners, Event{Type: EventCleared})
}

// Images returns a defensive copy of the gallery, newest first.
func (s *Store) Images() []ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ImageRecord, len(s.images))
	for i, record := range s.images {
		out[i] = record.clone()
	}
	return out
}

// Subscribe registers a listener for every store event and returns its
// unsubscribe function. Listeners run synchronously in subscription order.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Flush writes any pending debounced state immediately. Used on shutdown.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer.Stop()
	s.timer = nil
	data := s.serializeLocked()
	s.mu.Unlock()

	s.write(data)
}

// schedulePersistLocked arms (or re-arms) the single debounce timer.
func (s *Store) schedulePersistLocked() {
	if s.timer != nil {
		s.timer.Reset(s.debounce)
		return
	}
	s.timer = time.AfterFunc(s.debounce, s.flushDebounced)
}

func (s *Store) flushDebounced() {
	s.mu.Lock()
	s.timer = nil
	data := s.serializeLocked()
	s.mu.Unlock()

	s.write(data)
}

func (s *Store) serializeLocked() []byte {
	data, err := json.Marshal(s.images)
	if err != nil {
		log.Printf("⚠️ [Store] Failed to serialize gallery: %v", err)
		return nil
	}
	return data
}

// write absorbs persistence failures: the in-memory gallery stays
// authoritative for the session even when the slot is unwritable.
func (s *Store) write(data []byte) {
	if data == nil {
		return
	}
	if err := s.persister.Save(context.Background(), data); err != nil {
		log.Printf("⚠️ [Store] Failed to persist gallery: %v", err)
	}
}

func (s *Store) snapshotListenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	for i, entry := range s.listeners {
		out[i] = entry.fn
	}
	return out
}

func notify(listeners []Listener, event Event) {
	for _, listener := range listeners {
		listener(event)
	}
}
