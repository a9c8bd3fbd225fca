package gallery

import "github.com/AppleLamps/free-photo-or/modules/store"

// View is the rendering boundary. The browser shell (or a test fake)
// implements it; the controller never touches the DOM directly.
type View interface {
	// RenderAll replaces every card in one batched operation.
	RenderAll(records []store.ImageRecord)

	// InsertCard places a fully preloaded card at the front of the grid.
	InsertCard(record store.ImageRecord)

	// BeginRemoveCard plays the removal transition and calls done when the
	// transition-complete signal fires. The controller force-detaches if the
	// signal never arrives.
	BeginRemoveCard(id string, done func())

	// DetachCard removes the card node outright.
	DetachCard(id string)

	// ShowPlaceholder / RemovePlaceholder manage loading slots by token.
	ShowPlaceholder(token string)
	RemovePlaceholder(token string)

	// SetDeletePending toggles the confirm-delete visual for one card.
	SetDeletePending(id string, pending bool)

	// SetEmptyState shows or hides the "no images yet" surface.
	SetEmptyState(visible bool)
}

// LightboxView is the modal's side of the rendering boundary. Show captures
// focus and locks page scroll; Hide reverses both.
type LightboxView interface {
	Populate(record store.ImageRecord)
	Show()
	Hide()

	// SetDragOffset moves the modal with an in-progress swipe; 0 snaps back.
	SetDragOffset(offsetY float64)

	WriteClipboard(text string) error
	AcknowledgeCopy()
	TriggerDownload(url, filename string)
}
