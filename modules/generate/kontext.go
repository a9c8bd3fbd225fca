package generate

// FLUX Kontext on Runware: instruction-based image editing. Always needs at
// least one reference image and works from up to the four most recent ones.
// WebP output is not supported by the BFL endpoints, so it downgrades to PNG.

var kontextSpec = register(&ModelSpec{
	ID:          "kontext",
	Family:      familyRunware,
	UpstreamID:  "bfl:3@1",
	Formats:     []string{"PNG", "JPEG"},
	MaxRefs:     4,
	RequiresRef: true,
	Build:       buildKontextTask,
})

func buildKontextTask(m *ModelSpec, prompt string, s *GenerationSettings, refs []string) RunwareTask {
	width, height := presetDimensions(s, 1024)

	// BFL safety tolerance runs 0 (strict) to 6 (permissive)
	tolerance := s.SafetyTolerance
	if tolerance < 0 {
		tolerance = 0
	}
	if tolerance > 6 {
		tolerance = 6
	}

	return RunwareTask{
		Width:            width,
		Height:           height,
		ReferenceImages:  refs,
		SafetyTolerance:  tolerance,
		PromptUpsampling: s.EnhancePrompt,
	}
}
