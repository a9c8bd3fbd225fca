package nanobanana

// GenerateRequest - one Gemini image generation call. References are data
// URLs, already capped and ordered by the caller.
type GenerateRequest struct {
	Prompt      string
	Model       string // override; falls back to the configured model
	References  []string
	AspectRatio string
	Resolution  string // 1K, 2K or 4K
	WebSearch   bool
	NumImages   int
}

// GenerateResponse - generated images as data URLs, ready for the gallery.
type GenerateResponse struct {
	Images []string
}
