package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AppleLamps/free-photo-or/modules/common/config"
	"github.com/AppleLamps/free-photo-or/modules/submodule/nanobanana"
)

// Service relays one generation request to the upstream provider the
// selected model lives on. No local persistence, one outbound call per
// invocation; the caller owns anything beyond that.
type Service struct {
	cfg        *config.Config
	httpClient *http.Client
	nano       *nanobanana.Service
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 180 * time.Second},
		nano:       nanobanana.NewService(cfg),
	}
}

// Generate normalizes the uniform settings for the selected model, calls its
// upstream, and returns the image URLs. Every failure comes back as a
// RelayError carrying the status to mirror to the client.
func (s *Service) Generate(ctx context.Context, prompt string, settings *GenerationSettings) (*GenerateResponse, *RelayError) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, validationError("prompt is required")
	}
	if settings == nil {
		settings = &GenerationSettings{}
	}

	spec := Resolve(settings.Model)

	log.Printf("🎨 [Generate] model=%s prompt=%s", spec.ID, truncateString(prompt, 50))

	switch spec.Family {
	case familyGemini:
		return s.generateGemini(ctx, spec, prompt, settings)
	default:
		return s.generateRunware(ctx, spec, prompt, settings)
	}
}

func (s *Service) generateRunware(ctx context.Context, spec *ModelSpec, prompt string, settings *GenerationSettings) (*GenerateResponse, *RelayError) {
	if s.cfg.RunwareAPIKey == "" {
		return nil, configError("RUNWARE_API_KEY not set")
	}

	tasks, relayErr := spec.Normalize(prompt, settings)
	if relayErr != nil {
		return nil, relayErr
	}

	jsonBody, err := json.Marshal(tasks)
	if err != nil {
		return nil, upstreamError(http.StatusInternalServerError, fmt.Sprintf("failed to marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.RunwareAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, upstreamError(http.StatusInternalServerError, fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.RunwareAPIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("❌ [Generate] Runware request failed: %v", err)
		return nil, upstreamError(http.StatusBadGateway, fmt.Sprintf("upstream unreachable: %v", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstreamError(http.StatusBadGateway, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [Generate] Runware error: status=%d, body=%s", resp.StatusCode, truncateString(string(bodyBytes), 200))
		return nil, upstreamError(resp.StatusCode, string(bodyBytes))
	}

	var runwareResp RunwareResponse
	if err := json.Unmarshal(bodyBytes, &runwareResp); err != nil {
		return nil, upstreamError(http.StatusBadGateway, fmt.Sprintf("failed to parse response: %v", err))
	}
	if runwareResp.Error != "" {
		return nil, upstreamError(http.StatusBadGateway, runwareResp.Error)
	}

	images := make([]GeneratedImage, 0, len(runwareResp.Data))
	for _, item := range runwareResp.Data {
		if item.ImageURL != "" {
			images = append(images, GeneratedImage{URL: item.ImageURL})
		}
	}
	if len(images) == 0 {
		return nil, upstreamError(http.StatusBadGateway, "no image generated from Runware")
	}

	log.Printf("✅ [Generate] %s produced %d image(s)", spec.ID, len(images))
	return &GenerateResponse{Images: images}, nil
}

func (s *Service) generateGemini(ctx context.Context, spec *ModelSpec, prompt string, settings *GenerationSettings) (*GenerateResponse, *RelayError) {
	refs := spec.ReferenceImages(settings)
	if spec.RequiresRef && len(refs) == 0 {
		return nil, validationError("model %q requires at least one input image", spec.ID)
	}

	if settings.EnhancePrompt {
		// Gemini has no upsampling switch; fold the instruction into the text.
		prompt += "\n\nRender with rich, specific visual detail."
	}

	req := &nanobanana.GenerateRequest{
		Prompt:      prompt,
		References:  refs,
		AspectRatio: settings.AspectRatio,
		Resolution:  settings.Resolution,
		WebSearch:   settings.WebSearch,
		NumImages:   clampImageCount(settings.NumImages),
	}
	if settings.LimitPerDay {
		// Rate-limited tier always runs on the flash variant.
		req.Model = "gemini-2.5-flash-image"
	}

	resp, err := s.nano.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, nanobanana.ErrNotConfigured) {
			return nil, configError(err.Error())
		}
		log.Printf("❌ [Generate] Gemini generation failed: %v", err)
		return nil, upstreamError(http.StatusBadGateway, err.Error())
	}

	images := make([]GeneratedImage, 0, len(resp.Images))
	for _, dataURL := range resp.Images {
		images = append(images, GeneratedImage{URL: dataURL})
	}

	log.Printf("✅ [Generate] %s produced %d image(s)", spec.ID, len(images))
	return &GenerateResponse{Images: images}, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
