package gallery

import (
	"log"
	"sync"
	"time"

	"github.com/AppleLamps/free-photo-or/modules/store"
)

// Swipe-to-dismiss thresholds. A downward drag past either one closes the
// lightbox; below both it snaps back.
const (
	SwipeDistanceThreshold = 110.0 // px
	SwipeVelocityThreshold = 0.85  // px per millisecond
)

// ShouldDismissSwipe decides whether a completed downward drag closes the
// modal. Upward drags never dismiss.
func ShouldDismissSwipe(deltaY float64, duration time.Duration) bool {
	if deltaY <= 0 {
		return false
	}
	if deltaY >= SwipeDistanceThreshold {
		return true
	}
	ms := float64(duration.Milliseconds())
	if ms <= 0 {
		ms = 1
	}
	return deltaY/ms >= SwipeVelocityThreshold
}

type swipeGesture struct {
	active  bool
	startY  float64
	startAt time.Time
}

// Lightbox is the single modal reused across all images. Opening populates
// it and hands focus/scroll bookkeeping to the view; closing reverses
// everything, including any in-progress swipe.
type Lightbox struct {
	mu      sync.Mutex
	view    LightboxView
	current *store.ImageRecord
	swipe   swipeGesture

	// onRemix re-emits the image's prompt and settings to the orchestrator.
	onRemix func(store.ImageRecord)
}

func NewLightbox(view LightboxView, onRemix func(store.ImageRecord)) *Lightbox {
	return &Lightbox{view: view, onRemix: onRemix}
}

// Open shows the modal for one record.
func (l *Lightbox) Open(record store.ImageRecord) {
	l.mu.Lock()
	l.current = &record
	l.swipe = swipeGesture{}
	l.mu.Unlock()

	l.view.Populate(record)
	l.view.Show()
}

// Close hides the modal and resets swipe state. Safe to call when closed.
func (l *Lightbox) Close() {
	l.mu.Lock()
	wasOpen := l.current != nil
	l.current = nil
	l.swipe = swipeGesture{}
	l.mu.Unlock()

	if wasOpen {
		l.view.SetDragOffset(0)
		l.view.Hide()
	}
}

// IsOpen reports whether a record is currently displayed.
func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// HandleBackdropClick closes only when the click landed on the modal root
// itself, not a descendant.
func (l *Lightbox) HandleBackdropClick(targetID, rootID string) {
	if targetID == rootID {
		l.Close()
	}
}

// HandleKey closes on Escape.
func (l *Lightbox) HandleKey(key string) {
	if key == "Escape" {
		l.Close()
	}
}

// TouchStart begins a swipe gesture at the given vertical position.
func (l *Lightbox) TouchStart(y float64, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return
	}
	l.swipe = swipeGesture{active: true, startY: y, startAt: at}
}

// TouchMove drags the modal with the finger; upward movement is clamped.
func (l *Lightbox) TouchMove(y float64) {
	l.mu.Lock()
	if !l.swipe.active {
		l.mu.Unlock()
		return
	}
	offset := y - l.swipe.startY
	if offset < 0 {
		offset = 0
	}
	l.mu.Unlock()

	l.view.SetDragOffset(offset)
}

// TouchEnd completes the gesture: dismiss past a threshold, snap back below.
func (l *Lightbox) TouchEnd(y float64, at time.Time) {
	l.mu.Lock()
	if !l.swipe.active {
		l.mu.Unlock()
		return
	}
	deltaY := y - l.swipe.startY
	duration := at.Sub(l.swipe.startAt)
	l.swipe = swipeGesture{}
	l.mu.Unlock()

	if ShouldDismissSwipe(deltaY, duration) {
		l.Close()
		return
	}
	l.view.SetDragOffset(0)
}

// CopyPrompt writes the prompt to the clipboard and acknowledges on success.
func (l *Lightbox) CopyPrompt() {
	l.mu.Lock()
	record := l.current
	l.mu.Unlock()
	if record == nil {
		return
	}

	if err := l.view.WriteClipboard(record.Prompt); err != nil {
		log.Printf("⚠️ [Lightbox] Clipboard write failed: %v", err)
		return
	}
	l.view.AcknowledgeCopy()
}

// Download hands the image to the view's save action.
func (l *Lightbox) Download() {
	l.mu.Lock()
	record := l.current
	l.mu.Unlock()
	if record == nil {
		return
	}
	l.view.TriggerDownload(record.URL, record.ID+".png")
}

// Remix re-emits prompt and settings to the orchestrator and closes.
func (l *Lightbox) Remix() {
	l.mu.Lock()
	record := l.current
	l.mu.Unlock()
	if record == nil {
		return
	}
	if l.onRemix != nil {
		l.onRemix(*record)
	}
	l.Close()
}
