package gallery

import (
	"context"
	"errors"
	"sync"

	"github.com/AppleLamps/free-photo-or/modules/store"
)

// fakeView records every call the controller makes. All methods are
// goroutine-safe because added-image handling runs off the caller goroutine.
type fakeView struct {
	mu sync.Mutex

	rendered     [][]store.ImageRecord
	inserted     []store.ImageRecord
	removing     []string
	detached     []string
	placeholders []string
	removedPH    []string
	pending      map[string]bool
	emptyState   []bool

	// completeRemoval, when set, is called with the done callback so a test
	// can decide when (or whether) the transition signal fires.
	completeRemoval func(id string, done func())
}

func newFakeView() *fakeView {
	return &fakeView{pending: make(map[string]bool)}
}

func (v *fakeView) RenderAll(records []store.ImageRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered = append(v.rendered, records)
}

func (v *fakeView) InsertCard(record store.ImageRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inserted = append(v.inserted, record)
}

func (v *fakeView) BeginRemoveCard(id string, done func()) {
	v.mu.Lock()
	v.removing = append(v.removing, id)
	complete := v.completeRemoval
	v.mu.Unlock()

	if complete != nil {
		complete(id, done)
	} else {
		done()
	}
}

func (v *fakeView) DetachCard(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detached = append(v.detached, id)
}

func (v *fakeView) ShowPlaceholder(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.placeholders = append(v.placeholders, token)
}

func (v *fakeView) RemovePlaceholder(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removedPH = append(v.removedPH, token)
}

func (v *fakeView) SetDeletePending(id string, pending bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending[id] = pending
}

func (v *fakeView) SetEmptyState(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.emptyState = append(v.emptyState, visible)
}

func (v *fakeView) insertedIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.inserted))
	for i, record := range v.inserted {
		out[i] = record.ID
	}
	return out
}

func (v *fakeView) detachedIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.detached...)
}

func (v *fakeView) removedPlaceholders() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.removedPH...)
}

func (v *fakeView) shownPlaceholders() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.placeholders...)
}

func (v *fakeView) deletePending(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending[id]
}

func (v *fakeView) lastEmptyState() (bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.emptyState) == 0 {
		return false, false
	}
	return v.emptyState[len(v.emptyState)-1], true
}

// fakePreloader resolves instantly, optionally failing every call.
type fakePreloader struct {
	mu   sync.Mutex
	urls []string
	fail bool
}

func (p *fakePreloader) Preload(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
	if p.fail {
		return errors.New("preload failed")
	}
	return nil
}

func (p *fakePreloader) preloadedURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.urls...)
}

// fakeLightboxView records the modal's lifecycle calls.
type fakeLightboxView struct {
	mu sync.Mutex

	populated    []store.ImageRecord
	shown        int
	hidden       int
	dragOffsets  []float64
	clipboard    []string
	clipboardErr error
	acked        int
	downloads    [][2]string
}

func (v *fakeLightboxView) Populate(record store.ImageRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.populated = append(v.populated, record)
}

func (v *fakeLightboxView) Show() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown++
}

func (v *fakeLightboxView) Hide() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

func (v *fakeLightboxView) SetDragOffset(offsetY float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragOffsets = append(v.dragOffsets, offsetY)
}

func (v *fakeLightboxView) WriteClipboard(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.clipboardErr != nil {
		return v.clipboardErr
	}
	v.clipboard = append(v.clipboard, text)
	return nil
}

func (v *fakeLightboxView) AcknowledgeCopy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.acked++
}

func (v *fakeLightboxView) TriggerDownload(url, filename string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.downloads = append(v.downloads, [2]string{url, filename})
}
