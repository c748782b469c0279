package pms

// Default tuning values, matching the upstream constants.
const (
	defaultMaxIters        = 2
	defaultPatchRadius     = 17
	defaultGammaColor      = 10
	defaultGammaProximity  = 25
	defaultBadPlanePenalty = 120
	defaultMedianRounds    = 1
)

// ConfigInit populates a Config with the upstream defaults for a given
// disparity range.
func ConfigInit(ndisps int) (Config, error) {
	if ndisps <= 0 {
		return Config{}, newError(ErrBadConfig, "pms: ndisps must be positive")
	}
	return Config{
		NDisps:             ndisps,
		MaxIters:           defaultMaxIters,
		PatchRadius:        defaultPatchRadius,
		GammaColor:         defaultGammaColor,
		GammaProximity:     defaultGammaProximity,
		BadPlanePenalty:    defaultBadPlanePenalty,
		FrontoParallelOnly: true,
		PostProcessing:     true,
		MedianRounds:       defaultMedianRounds,
	}, nil
}

// validateConfig rejects configurations no run could accept, regardless of
// image size. Image-dependent checks happen in Run.
func validateConfig(cfg *Config) error {
	switch {
	case cfg.NDisps <= 0:
		return newError(ErrBadConfig, "pms: ndisps must be positive")
	case cfg.MaxIters < 1:
		return newError(ErrBadConfig, "pms: max iters must be at least 1")
	case cfg.PatchRadius <= 0:
		return newError(ErrBadConfig, "pms: patch radius must be positive")
	case cfg.GammaColor <= 0 || cfg.GammaProximity <= 0:
		return newError(ErrBadConfig, "pms: gamma falloffs must be positive")
	case cfg.BadPlanePenalty < 0:
		return newError(ErrBadConfig, "pms: bad plane penalty must be non-negative")
	case cfg.MedianRounds < 1:
		return newError(ErrBadConfig, "pms: median rounds must be at least 1")
	}
	return nil
}

// ContextAlloc validates a config and creates a matcher context around a
// private copy of it.
func ContextAlloc(cfg *Config) (*Context, error) {
	if cfg == nil {
		return nil, newError(ErrBadParam, "pms: nil config")
	}
	cfgi := *cfg
	if err := validateConfig(&cfgi); err != nil {
		return nil, err
	}
	return &Context{cfg: cfgi}, nil
}
