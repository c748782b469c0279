package pms

// Config holds every tunable of the matcher. Zero value is not usable;
// start from ConfigInit.
type Config struct {
	// NDisps is the number of disparity hypotheses D; planes evaluate to
	// disparities in [0, NDisps-1].
	NDisps int

	// MaxIters is the number of optimizer passes over both views.
	MaxIters int

	// PatchRadius is the support window radius R; the window is
	// (2R+1) x (2R+1) texels.
	PatchRadius int

	// GammaColor and GammaProximity are the bilateral weight falloffs for
	// the L1 color distance and the Euclidean pixel distance.
	GammaColor     float32
	GammaProximity float32

	// BadPlanePenalty is added per window sample whose plane disparity
	// falls outside [0, NDisps-1]. It is a fixed value (default 120) and is
	// not derived from the cost volumes.
	BadPlanePenalty float32

	// FrontoParallelOnly restricts planes to normal (0,0,1) with integer
	// disparity.
	FrontoParallelOnly bool

	// PostProcessing enables cross-checking and weighted median filtering
	// of the materialized disparity maps.
	PostProcessing bool

	// MedianRounds is the number of weighted median filtering rounds.
	MedianRounds int

	// UseInvalidOnLastRound keeps cross-check-invalid neighbors in the
	// median window on the final round. Earlier rounds always use them.
	UseInvalidOnLastRound bool

	// HoleFilling copies the lower-disparity plane of the nearest valid
	// scanline neighbors into each invalid pixel before median filtering.
	// Upstream ships this disabled.
	HoleFilling bool

	// PhotometricCost matches planes directly against the other view's
	// pixels (L1 color distance with linear interpolation) instead of
	// indexing the cost volumes. The volumes may then be omitted.
	PhotometricCost bool

	// PlaneRefinement polishes each pixel's plane coefficients with a
	// Nelder-Mead descent on the matching cost after the PatchMatch
	// passes. Only takes effect when FrontoParallelOnly is false.
	PlaneRefinement bool

	// RNGSeed seeds the sampler. Zero selects an entropy seed, making
	// runs nondeterministic.
	RNGSeed uint64

	// ProgressCallback, when non-nil, is invoked with a fraction in
	// (0, 1] after each completed view pass.
	ProgressCallback func(progress float32)
}

// Context is a reusable matcher created by ContextAlloc. It holds the
// validated configuration and run statistics; one Run may be active at a
// time.
type Context struct {
	cfg Config

	// Guesses accepted by the improvement rule during the last Run.
	improveCount int
}

// Config returns the validated configuration the context was built with.
func (c *Context) Config() Config { return c.cfg }

// ImproveCount reports how many candidate planes were accepted during the
// last Run (spatial, random and view propagation combined, plus plane
// refinement when PlaneRefinement is set).
func (c *Context) ImproveCount() int { return c.improveCount }
