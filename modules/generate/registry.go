package generate

import (
	"log"
	"strings"

	"github.com/google/uuid"
)

// Model families. Runware models are relayed as raw JSON; the Gemini family
// goes through the nanobanana service and its SDK client.
const (
	familyRunware = "runware"
	familyGemini  = "gemini"
)

// DefaultModel handles requests that name no model, or an unknown one.
const DefaultModel = "flux"

// ModelSpec describes one supported model: where it lives upstream, which
// inputs it accepts, and how to shape its payload. Adding a model means
// adding a table entry, not touching the dispatch flow.
type ModelSpec struct {
	ID         string
	Family     string
	UpstreamID string

	// Formats lists the accepted output formats; Formats[0] is the downgrade
	// target for anything the model does not support.
	Formats []string

	// MaxRefs caps the reference image list (0 = references not accepted).
	// RequiresRef models fail validation without at least one reference.
	MaxRefs     int
	RequiresRef bool

	// Build shapes the Runware task for this model. Nil for non-Runware
	// families, which are dispatched by Family in the service.
	Build func(m *ModelSpec, prompt string, s *GenerationSettings, refs []string) RunwareTask
}

var registry = map[string]*ModelSpec{}

func register(spec *ModelSpec) *ModelSpec {
	registry[spec.ID] = spec
	return spec
}

// Resolve returns the spec for the requested model, falling back to the
// default model for unknown identifiers. The fallback is logged loudly so a
// misconfigured client is visible in server logs rather than silently served.
func Resolve(model string) *ModelSpec {
	if spec, ok := registry[strings.ToLower(strings.TrimSpace(model))]; ok {
		return spec
	}
	if model != "" {
		log.Printf("⚠️ [Generate] Unknown model %q, falling back to %q", model, DefaultModel)
	}
	return registry[DefaultModel]
}

// Normalize validates model-specific preconditions and produces the Runware
// task batch for this request. Validation failures never reach the network.
func (m *ModelSpec) Normalize(prompt string, s *GenerationSettings) ([]RunwareTask, *RelayError) {
	refs := m.ReferenceImages(s)
	if m.RequiresRef && len(refs) == 0 {
		return nil, validationError("model %q requires at least one input image", m.ID)
	}

	task := m.Build(m, prompt, s, refs)
	task.TaskType = "imageInference"
	task.TaskUUID = uuid.New().String()
	task.PositivePrompt = prompt
	task.Model = m.UpstreamID
	task.NumberResults = clampImageCount(s.NumImages)
	task.OutputFormat = m.OutputFormat(s.OutputFormat)
	if s.Seed != 0 {
		task.Seed = s.Seed
	}
	if s.SafetyFilter {
		task.CheckNSFW = true
	}
	if s.WaitForResult {
		task.DeliveryMethod = "sync"
	}

	return []RunwareTask{task}, nil
}

// ReferenceImages folds the singular and list reference fields into one
// ordered list (singular first, as it was supplied first), drops empties,
// and keeps only the most recent MaxRefs entries.
func (m *ModelSpec) ReferenceImages(s *GenerationSettings) []string {
	if m.MaxRefs == 0 {
		return nil
	}

	merged := make([]string, 0, len(s.InputImages)+1)
	if strings.TrimSpace(s.InputImage) != "" {
		merged = append(merged, s.InputImage)
	}
	for _, ref := range s.InputImages {
		if strings.TrimSpace(ref) != "" {
			merged = append(merged, ref)
		}
	}

	if len(merged) > m.MaxRefs {
		merged = merged[len(merged)-m.MaxRefs:]
	}
	return merged
}

// OutputFormat downgrades unsupported encodings to the model's fallback
// instead of failing the request.
func (m *ModelSpec) OutputFormat(requested string) string {
	format := strings.ToUpper(strings.TrimSpace(requested))
	if format == "JPG" {
		format = "JPEG"
	}
	if format == "" {
		return m.Formats[0]
	}
	for _, supported := range m.Formats {
		if format == supported {
			return format
		}
	}
	log.Printf("🔧 [Generate] Format %s not supported by %s, using %s", format, m.ID, m.Formats[0])
	return m.Formats[0]
}

// clampImageCount bounds the per-request image count to 1..4 for every model
// family, so one request can never fan out into an unbounded upstream batch.
func clampImageCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

// presetDimensions resolves the named size preset, or an explicit pair, into
// concrete dimensions. base is the model's square edge (multiples of 64).
func presetDimensions(s *GenerationSettings, base int) (int, int) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}
	switch s.Size {
	case "landscape":
		return base + base/4, base - base/4
	case "portrait":
		return base - base/4, base + base/4
	default: // square or unset
		return base, base
	}
}
