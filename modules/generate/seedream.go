package generate

// Seedream 3.0 on Runware (ByteDance). High resolution, aspect-ratio driven.
// The upstream ignores steps, guidance and negative prompts, so none of them
// are forwarded. Output is PNG or JPEG only.

var seedreamSpec = register(&ModelSpec{
	ID:         "seedream",
	Family:     familyRunware,
	UpstreamID: "bytedance:seedream-3.0",
	Formats:    []string{"PNG", "JPEG"},
	MaxRefs:    1,
	Build:      buildSeedreamTask,
})

func buildSeedreamTask(m *ModelSpec, prompt string, s *GenerationSettings, refs []string) RunwareTask {
	width, height := seedreamDimensions(s)

	return RunwareTask{
		Width:           width,
		Height:          height,
		ReferenceImages: refs,
	}
}

// seedreamDimensions maps the aspect ratio onto Seedream's 2048-base grid.
// An explicit width/height pair wins over the ratio.
func seedreamDimensions(s *GenerationSettings) (int, int) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}

	switch s.AspectRatio {
	case "16:9":
		return 2048, 1152
	case "9:16":
		return 1152, 2048
	case "4:3":
		return 2048, 1536
	case "3:4":
		return 1536, 2048
	case "4:5":
		return 1638, 2048
	default: // 1:1 or unset
		return 2048, 2048
	}
}
