package enhance

// EnhanceRequest - body of POST /api/enhance.
type EnhanceRequest struct {
	Prompt string `json:"prompt"`
}

// EnhanceResponse - the rewritten prompt on success.
type EnhanceResponse struct {
	EnhancedPrompt string `json:"enhancedPrompt"`
}

// ErrorResponse - body of a failed enhancement.
type ErrorResponse struct {
	Error string `json:"error"`
}
