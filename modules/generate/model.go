package generate

// GenerationSettings is the uniform settings object the browser client sends.
// Each model family only forwards the fields its upstream API accepts; the
// registry entry for the selected model decides which ones those are.
type GenerationSettings struct {
	Model string `json:"model"`

	// Common fields
	Size          string `json:"size,omitempty"` // named preset: square, landscape, portrait
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Steps         int    `json:"steps,omitempty"`
	NumImages     int    `json:"num_images,omitempty"`
	OutputFormat  string `json:"output_format,omitempty"` // png, jpeg, webp
	SafetyFilter  bool   `json:"safety_filter,omitempty"`
	WaitForResult bool   `json:"wait_for_result,omitempty"`
	Seed          int64  `json:"seed,omitempty"`

	// Model-specific fields
	Guidance        float64  `json:"guidance,omitempty"`
	NegativePrompt  string   `json:"negative_prompt,omitempty"`
	Turbo           bool     `json:"turbo,omitempty"`
	InputImage      string   `json:"input_image,omitempty"`  // single reference (data URL or URL)
	InputImages     []string `json:"input_images,omitempty"` // reference list, oldest first
	Strength        float64  `json:"strength,omitempty"`
	AspectRatio     string   `json:"aspect_ratio,omitempty"`
	SafetyTolerance int      `json:"safety_tolerance,omitempty"`
	EnhancePrompt   bool     `json:"enhance_prompt,omitempty"`
	Resolution      string   `json:"resolution,omitempty"` // 1K, 2K, 4K
	WebSearch       bool     `json:"web_search,omitempty"`
	LimitPerDay     bool     `json:"limit_per_day,omitempty"`
}

// GenerateRequest - body of POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	GenerationSettings
}

// GeneratedImage - one image in a successful response.
type GeneratedImage struct {
	URL string `json:"url"`
}

// GenerateResponse - body of a successful generation.
type GenerateResponse struct {
	Images []GeneratedImage `json:"images"`
}

// ErrorResponse - body of any failed generation, status carried on the wire.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RunwareTask - one task in a Runware imageInference request. The per-model
// build functions only populate the fields their model accepts.
type RunwareTask struct {
	TaskType         string   `json:"taskType"`
	TaskUUID         string   `json:"taskUUID"`
	PositivePrompt   string   `json:"positivePrompt"`
	NegativePrompt   string   `json:"negativePrompt,omitempty"`
	Model            string   `json:"model"`
	Width            int      `json:"width,omitempty"`
	Height           int      `json:"height,omitempty"`
	NumberResults    int      `json:"numberResults"`
	OutputFormat     string   `json:"outputFormat,omitempty"`
	Steps            int      `json:"steps,omitempty"`
	CFGScale         float64  `json:"CFGScale,omitempty"`
	Seed             int64    `json:"seed,omitempty"`
	CheckNSFW        bool     `json:"checkNSFW,omitempty"`
	PromptUpsampling bool     `json:"promptUpsampling,omitempty"`
	SafetyTolerance  int      `json:"safetyTolerance,omitempty"`
	DeliveryMethod   string   `json:"deliveryMethod,omitempty"`
	InputImage       string   `json:"inputImage,omitempty"`
	Strength         float64  `json:"strength,omitempty"`
	ReferenceImages  []string `json:"referenceImages,omitempty"`
}

// RunwareResponse - Runware API response envelope.
type RunwareResponse struct {
	Data []struct {
		TaskType  string `json:"taskType"`
		TaskUUID  string `json:"taskUUID"`
		ImageURL  string `json:"imageURL"`
		ImageUUID string `json:"imageUUID"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}
