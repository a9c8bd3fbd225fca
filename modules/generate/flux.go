package generate

// FLUX family on Runware: the full dev model and the few-step turbo variant.
// Both take the standard txt2img fields; turbo also accepts a single input
// image for img2img.

var fluxSpec = register(&ModelSpec{
	ID:         "flux",
	Family:     familyRunware,
	UpstreamID: "runware:101@1",
	Formats:    []string{"PNG", "JPEG", "WEBP"},
	Build:      buildFluxTask,
})

var turboSpec = register(&ModelSpec{
	ID:         "turbo",
	Family:     familyRunware,
	UpstreamID: "runware:100@1",
	Formats:    []string{"PNG", "JPEG", "WEBP"},
	MaxRefs:    1,
	Build:      buildTurboTask,
})

func buildFluxTask(m *ModelSpec, prompt string, s *GenerationSettings, refs []string) RunwareTask {
	width, height := presetDimensions(s, 1024)

	steps := s.Steps
	if steps <= 0 {
		steps = 50
	}
	guidance := s.Guidance
	if guidance <= 0 {
		guidance = 3.5
	}

	return RunwareTask{
		Width:            width,
		Height:           height,
		Steps:            steps,
		CFGScale:         guidance,
		NegativePrompt:   s.NegativePrompt,
		PromptUpsampling: s.EnhancePrompt,
	}
}

func buildTurboTask(m *ModelSpec, prompt string, s *GenerationSettings, refs []string) RunwareTask {
	width, height := presetDimensions(s, 1024)

	steps := s.Steps
	if steps <= 0 {
		steps = 8
	}
	guidance := s.Guidance
	if guidance <= 0 {
		guidance = 1.0
	}

	task := RunwareTask{
		Width:          width,
		Height:         height,
		Steps:          steps,
		CFGScale:       guidance,
		NegativePrompt: s.NegativePrompt,
	}

	// img2img when a reference was supplied
	if len(refs) > 0 {
		task.InputImage = refs[0]
		strength := s.Strength
		if strength <= 0 {
			strength = 0.7
		}
		task.Strength = strength
	}

	return task
}
