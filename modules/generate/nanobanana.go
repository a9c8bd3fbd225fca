package generate

// Gemini image family ("nanobanana"). Requests go through the SDK client in
// modules/submodule/nanobanana rather than the raw Runware relay, so the
// registry entry only carries the input rules; payload shaping lives there.

var nanobananaSpec = register(&ModelSpec{
	ID:      "nanobanana",
	Family:  familyGemini,
	Formats: []string{"PNG"},
	MaxRefs: 2,
})
