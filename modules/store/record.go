package store

import (
	"strings"

	"github.com/AppleLamps/free-photo-or/modules/generate"
)

// ImageRecord is one generated image in the gallery. IDs are minted by the
// orchestrator at creation time and unique within the store.
type ImageRecord struct {
	ID        string                       `json:"id"`
	URL       string                       `json:"url"`
	Prompt    string                       `json:"prompt"`
	CreatedAt int64                        `json:"createdAt"` // epoch milliseconds
	Settings  *generate.GenerationSettings `json:"settings,omitempty"`
}

// SnapshotSettings copies the settings for later remix, dropping embedded
// base64 image payloads so the persisted slot stays small.
func SnapshotSettings(s generate.GenerationSettings) *generate.GenerationSettings {
	snapshot := s

	if isEmbeddedData(snapshot.InputImage) {
		snapshot.InputImage = ""
	}

	var refs []string
	for _, ref := range s.InputImages {
		if !isEmbeddedData(ref) {
			refs = append(refs, ref)
		}
	}
	snapshot.InputImages = refs

	return &snapshot
}

func isEmbeddedData(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// clone returns a record whose mutable parts are detached from the original.
func (r ImageRecord) clone() ImageRecord {
	out := r
	if r.Settings != nil {
		settings := *r.Settings
		settings.InputImages = append([]string(nil), r.Settings.InputImages...)
		out.Settings = &settings
	}
	return out
}
