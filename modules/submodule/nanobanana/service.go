package nanobanana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/AppleLamps/free-photo-or/modules/common/config"
	"github.com/AppleLamps/free-photo-or/modules/common/gemini"
)

// ErrNotConfigured reports a missing GEMINI_API_KEYS secret. The generate
// relay maps it to its configuration error, never to an upstream failure.
var ErrNotConfigured = errors.New("GEMINI_API_KEYS not configured")

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) *Service {
	if len(cfg.GeminiAPIKeys) == 0 {
		log.Println("⚠️ [Nanobanana] GEMINI_API_KEYS not configured")
	} else {
		log.Println("✅ [Nanobanana] Service initialized")
	}
	return &Service{cfg: cfg}
}

// Generate produces images through the Gemini API, rotating API keys on 429.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if len(s.cfg.GeminiAPIKeys) == 0 {
		return nil, ErrNotConfigured
	}

	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
	}

	for i, ref := range req.References {
		mimeType, data, err := decodeDataURL(ref)
		if err != nil {
			log.Printf("⚠️ [Nanobanana] Skipping reference %d: %v", i, err)
			continue
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	genConfig := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: defaultAspectRatio(req.AspectRatio),
		},
	}
	if size := imageSize(req.Resolution); size != "" {
		genConfig.ImageConfig.ImageSize = size
	}
	if req.WebSearch {
		genConfig.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	count := batchSize(req.NumImages)

	model := req.Model
	if model == "" {
		model = s.cfg.GeminiModel
	}

	log.Printf("🎨 [Nanobanana] Generating %d image(s) - model: %s, ratio: %s, refs: %d",
		count, model, defaultAspectRatio(req.AspectRatio), len(req.References))

	content := &genai.Content{Parts: parts}

	images := make([]string, 0, count)
	for len(images) < count {
		result, err := gemini.GenerateContentWithRetry(
			ctx, s.cfg.GeminiAPIKeys, model,
			[]*genai.Content{content}, genConfig,
		)
		if err != nil {
			return nil, fmt.Errorf("Gemini API error: %w", err)
		}

		got := extractImages(result, count-len(images))
		if len(got) == 0 {
			return nil, fmt.Errorf("no image generated from Gemini")
		}
		images = append(images, got...)
	}

	log.Printf("✅ [Nanobanana] Generated %d image(s)", len(images))
	return &GenerateResponse{Images: images}, nil
}

// extractImages pulls inline image parts out of a Gemini response as data URLs.
func extractImages(result *genai.GenerateContentResponse, max int) []string {
	var images []string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			images = append(images, "data:"+mimeType+";base64,"+
				base64.StdEncoding.EncodeToString(part.InlineData.Data))
			if len(images) >= max {
				return images
			}
		}
	}
	return images
}

// decodeDataURL splits a data:<mime>;base64,<payload> reference into its
// mime type and raw bytes.
func decodeDataURL(ref string) (string, []byte, error) {
	if !strings.HasPrefix(ref, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, found := strings.Cut(ref[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mimeType, data, nil
}

// batchSize bounds the generation loop. Each missing image costs one upstream
// call (with its own retry budget), so the count is capped at 4 regardless of
// what the request carried.
func batchSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

func defaultAspectRatio(ratio string) string {
	if ratio == "" {
		return "1:1"
	}
	return ratio
}

// imageSize maps the resolution tier onto the values the Gemini image models
// accept. Unknown tiers fall back to the model default rather than failing.
func imageSize(resolution string) string {
	switch strings.ToUpper(strings.TrimSpace(resolution)) {
	case "1K":
		return "1K"
	case "2K":
		return "2K"
	case "4K":
		return "4K"
	default:
		return ""
	}
}
