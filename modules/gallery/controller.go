package gallery

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AppleLamps/free-photo-or/modules/store"
)

const (
	// DefaultConfirmWindow is how long a delete stays in "press again to
	// confirm" before reverting to idle.
	DefaultConfirmWindow = 3 * time.Second

	// DefaultRemovalGrace force-detaches a card whose removal transition
	// never signals completion.
	DefaultRemovalGrace = 500 * time.Millisecond
)

// Controller keeps the on-screen grid consistent with the store and owns the
// ephemeral UI state that is never persisted: placeholders, delete
// confirmations and removal transitions. Every timer it creates is cancelled
// on the owning element's teardown; a late firing is a safe no-op.
type Controller struct {
	mu    sync.Mutex
	store *store.Store
	view  View

	preloader Preloader

	placeholders   []string // LIFO, most recent last
	pendingDeletes map[string]*time.Timer
	removalTimers  map[string]*time.Timer
	imageCount     int

	confirmWindow time.Duration
	removalGrace  time.Duration

	unsubscribe func()
}

// ControllerOption tweaks controller construction.
type ControllerOption func(*Controller)

// WithConfirmWindow overrides the delete-confirmation auto-revert window.
func WithConfirmWindow(d time.Duration) ControllerOption {
	return func(c *Controller) { c.confirmWindow = d }
}

// WithRemovalGrace overrides the transition force-detach fallback.
func WithRemovalGrace(d time.Duration) ControllerOption {
	return func(c *Controller) { c.removalGrace = d }
}

// NewController builds a controller bound to one store and view.
func NewController(s *store.Store, view View, preloader Preloader, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:          s,
		view:           view,
		preloader:      preloader,
		pendingDeletes: make(map[string]*time.Timer),
		removalTimers:  make(map[string]*time.Timer),
		confirmWindow:  DefaultConfirmWindow,
		removalGrace:   DefaultRemovalGrace,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount renders the stored gallery in one batch and subscribes to updates.
func (c *Controller) Mount() {
	records := c.store.Images()

	c.mu.Lock()
	c.imageCount = len(records)
	c.mu.Unlock()

	c.view.RenderAll(records)
	c.recomputeEmptyState()

	c.unsubscribe = c.store.Subscribe(c.handleEvent)
}

// Unmount detaches from the store and cancels every outstanding timer.
func (c *Controller) Unmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, timer := range c.pendingDeletes {
		timer.Stop()
		delete(c.pendingDeletes, id)
	}
	for id, timer := range c.removalTimers {
		timer.Stop()
		delete(c.removalTimers, id)
	}
}

func (c *Controller) handleEvent(event store.Event) {
	switch event.Type {
	case store.EventAdded:
		c.onAdded(*event.Record)
	case store.EventRemoved:
		c.onRemoved(event.Record.ID)
	case store.EventCleared:
		c.onCleared()
	}
}

// onAdded preloads the image off-screen, then pops the most recent pending
// placeholder for the finished card. Preload failure still reveals the card
// so a broken resource never leaves the slot stuck loading.
func (c *Controller) onAdded(record store.ImageRecord) {
	c.mu.Lock()
	c.imageCount++
	c.mu.Unlock()

	go func() {
		if err := c.preloader.Preload(context.Background(), record.URL); err != nil {
			log.Printf("⚠️ [Gallery] Preload failed for %s, revealing anyway: %v", record.ID, err)
		}
		c.RemovePlaceholder()
		c.view.InsertCard(record)
		c.recomputeEmptyState()
	}()
}

func (c *Controller) onRemoved(id string) {
	c.mu.Lock()
	c.imageCount--
	// The record can disappear for any reason; its confirm state goes with it.
	if timer, ok := c.pendingDeletes[id]; ok {
		timer.Stop()
		delete(c.pendingDeletes, id)
	}

	var once sync.Once
	detach := func() {
		once.Do(func() {
			c.mu.Lock()
			if timer, ok := c.removalTimers[id]; ok {
				timer.Stop()
				delete(c.removalTimers, id)
			}
			c.mu.Unlock()
			c.view.DetachCard(id)
			c.recomputeEmptyState()
		})
	}
	c.removalTimers[id] = time.AfterFunc(c.removalGrace, detach)
	c.mu.Unlock()

	c.view.BeginRemoveCard(id, detach)
}

func (c *Controller) onCleared() {
	c.mu.Lock()
	c.imageCount = 0
	for id, timer := range c.pendingDeletes {
		timer.Stop()
		delete(c.pendingDeletes, id)
	}
	for id, timer := range c.removalTimers {
		timer.Stop()
		delete(c.removalTimers, id)
	}
	c.mu.Unlock()

	c.view.RenderAll(nil)
	c.recomputeEmptyState()
}

// PressDelete drives the two-step confirmation. First press arms a
// confirmation that auto-reverts; a second press within the window confirms
// and removes. One timer per id — a re-press consumes, never restarts.
func (c *Controller) PressDelete(id string) {
	c.mu.Lock()
	if timer, ok := c.pendingDeletes[id]; ok {
		timer.Stop()
		delete(c.pendingDeletes, id)
		c.mu.Unlock()

		c.view.SetDeletePending(id, false)
		c.store.RemoveImage(id)
		return
	}

	c.pendingDeletes[id] = time.AfterFunc(c.confirmWindow, func() {
		c.mu.Lock()
		_, stillPending := c.pendingDeletes[id]
		delete(c.pendingDeletes, id)
		c.mu.Unlock()

		if stillPending {
			c.view.SetDeletePending(id, false)
		}
	})
	c.mu.Unlock()

	c.view.SetDeletePending(id, true)
}

// IsDeletePending reports whether id awaits its confirming press.
func (c *Controller) IsDeletePending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pendingDeletes[id]
	return ok
}

// ShowPlaceholder pushes one loading slot at the front of the grid.
func (c *Controller) ShowPlaceholder() {
	token := uuid.New().String()

	c.mu.Lock()
	c.placeholders = append(c.placeholders, token)
	c.mu.Unlock()

	c.view.ShowPlaceholder(token)
	c.recomputeEmptyState()
}

// RemovePlaceholder pops the most recently pushed slot (LIFO).
func (c *Controller) RemovePlaceholder() {
	c.mu.Lock()
	if len(c.placeholders) == 0 {
		c.mu.Unlock()
		return
	}
	token := c.placeholders[len(c.placeholders)-1]
	c.placeholders = c.placeholders[:len(c.placeholders)-1]
	c.mu.Unlock()

	c.view.RemovePlaceholder(token)
	c.recomputeEmptyState()
}

// RemoveAllPlaceholders is the error/cleanup path: a failed batch of N must
// never leave orphaned loading slots behind.
func (c *Controller) RemoveAllPlaceholders() {
	c.mu.Lock()
	tokens := c.placeholders
	c.placeholders = nil
	c.mu.Unlock()

	for i := len(tokens) - 1; i >= 0; i-- {
		c.view.RemovePlaceholder(tokens[i])
	}
	c.recomputeEmptyState()
}

// PlaceholderCount reports the pending loading slots.
func (c *Controller) PlaceholderCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.placeholders)
}

// recomputeEmptyState shows the empty surface iff there are no images and no
// pending placeholders.
func (c *Controller) recomputeEmptyState() {
	c.mu.Lock()
	visible := c.imageCount == 0 && len(c.placeholders) == 0
	c.mu.Unlock()

	c.view.SetEmptyState(visible)
}
