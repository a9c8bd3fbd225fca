package orchestrator

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AppleLamps/free-photo-or/modules/gallery"
	"github.com/AppleLamps/free-photo-or/modules/generate"
	"github.com/AppleLamps/free-photo-or/modules/store"
)

// ErrBusy rejects a generate while one is already in flight. The trigger
// control is disabled for the duration; this error backs that up.
var ErrBusy = errors.New("a generation is already in flight")

// DefaultToastDuration is how long a failure notification stays up.
const DefaultToastDuration = 4 * time.Second

// Gateway is the slice of the API client the orchestrator drives.
type Gateway interface {
	RequestGeneration(ctx context.Context, prompt string, settings generate.GenerationSettings) ([]generate.GeneratedImage, error)
	RequestEnhancement(ctx context.Context, prompt string) (string, error)
}

// Controls is the form surface: the trigger button, the prompt field and the
// settings controls the remix path repopulates.
type Controls interface {
	SetGenerating(generating bool)
	SetPrompt(text string)
	PopulateForm(prompt string, settings generate.GenerationSettings)
}

// Notifier shows the transient failure toast. The orchestrator owns the
// auto-dismiss timer so a new toast always cancels the previous one.
type Notifier interface {
	ShowNotification(message string)
	HideNotification()
}

// PendingUpload is an image the user attached to the next generation. It is
// explicit state passed into settings construction, not a shared global.
type PendingUpload struct {
	DataURL string
}

// Orchestrator reads form state into uniform settings and drives the
// generate, enhance and remix workflows.
type Orchestrator struct {
	store    *store.Store
	gal      *gallery.Controller
	gateway  Gateway
	controls Controls
	notifier Notifier

	mu            sync.Mutex
	inFlight      bool
	toastTimer    *time.Timer
	toastDuration time.Duration
}

// Option tweaks orchestrator construction.
type Option func(*Orchestrator)

// WithToastDuration overrides the notification auto-dismiss window.
func WithToastDuration(d time.Duration) Option {
	return func(o *Orchestrator) { o.toastDuration = d }
}

func New(s *store.Store, gal *gallery.Controller, gw Gateway, controls Controls, notifier Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:         s,
		gal:           gal,
		gateway:       gw,
		controls:      controls,
		notifier:      notifier,
		toastDuration: DefaultToastDuration,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BuildSettings folds the form state and any pending uploads into the
// uniform settings object. One upload fills the singular reference; several
// fill the list — never both.
func BuildSettings(form generate.GenerationSettings, uploads []PendingUpload) generate.GenerationSettings {
	settings := form
	settings.InputImage = ""
	settings.InputImages = nil

	switch len(uploads) {
	case 0:
	case 1:
		settings.InputImage = uploads[0].DataURL
	default:
		refs := make([]string, 0, len(uploads))
		for _, upload := range uploads {
			refs = append(refs, upload.DataURL)
		}
		settings.InputImages = refs
	}
	return settings
}

// Generate runs one generation end to end: placeholders up front, records
// into the store on success, full placeholder cleanup and a toast on failure.
// The UI always comes back recoverable.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, form generate.GenerationSettings, uploads []PendingUpload) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		o.toast("Please enter a prompt first")
		return errors.New("prompt is required")
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrBusy
	}
	o.inFlight = true
	o.mu.Unlock()

	o.controls.SetGenerating(true)
	defer func() {
		o.controls.SetGenerating(false)
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	settings := BuildSettings(form, uploads)

	count := settings.NumImages
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		o.gal.ShowPlaceholder()
	}

	images, err := o.gateway.RequestGeneration(ctx, prompt, settings)
	if err != nil {
		o.gal.RemoveAllPlaceholders()
		o.toast("Generation failed: " + err.Error())
		return err
	}

	snapshot := store.SnapshotSettings(settings)
	for _, image := range images {
		o.store.AddImage(store.ImageRecord{
			ID:        uuid.New().String(),
			URL:       image.URL,
			Prompt:    prompt,
			CreatedAt: time.Now().UnixMilli(),
			Settings:  snapshot,
		})
	}

	// Upstream may return fewer images than requested; drop the leftovers.
	for i := len(images); i < count; i++ {
		o.gal.RemovePlaceholder()
	}

	log.Printf("✅ [Orchestrator] Added %d image(s) to the gallery", len(images))
	return nil
}

// Enhance rewrites the prompt through the relay and puts the result back in
// the form.
func (o *Orchestrator) Enhance(ctx context.Context, prompt string) error {
	enhanced, err := o.gateway.RequestEnhancement(ctx, prompt)
	if err != nil {
		o.toast("Enhancement failed: " + err.Error())
		return err
	}
	o.controls.SetPrompt(enhanced)
	return nil
}

// Remix repopulates the form with a previous image's prompt and settings.
func (o *Orchestrator) Remix(record store.ImageRecord) {
	settings := generate.GenerationSettings{}
	if record.Settings != nil {
		settings = *record.Settings
	}
	o.controls.PopulateForm(record.Prompt, settings)
}

// toast shows an auto-dismissing notification, replacing any current one.
func (o *Orchestrator) toast(message string) {
	o.mu.Lock()
	if o.toastTimer != nil {
		o.toastTimer.Stop()
	}
	o.toastTimer = time.AfterFunc(o.toastDuration, o.notifier.HideNotification)
	o.mu.Unlock()

	o.notifier.ShowNotification(message)
}
