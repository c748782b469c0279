// Package pms is a pure-Go port of the PatchMatchStereo dense stereo
// matcher.
//
// Given a rectified color image pair and a pair of disparity-space images
// (per-pixel, per-disparity matching costs), it estimates one disparity
// plane per pixel by randomized coordinate descent: spatial propagation
// from the four neighbors, random search in a halving neighborhood, and
// propagation into the other view. The two resulting disparity maps are
// cross-checked and repaired by adaptive weighted median filtering.
//
// Typical use:
//
//	cfg, _ := pms.ConfigInit(60)
//	ctx, _ := pms.ContextAlloc(&cfg)
//	dsiL, _ := pms.CensusVolume(grayL, grayR, cfg.NDisps, -1)
//	dsiR, _ := pms.CensusVolume(grayR, grayL, cfg.NDisps, +1)
//	err := ctx.Run(imL, imR, dsiL, dsiR, dispL, dispR)
//
// Any non-negative cost volume may stand in for the supplied Census
// builder; the optimizer only reads it.
package pms
