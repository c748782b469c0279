package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/caomw/PatchMatchStereo/pms"

	_ "image/jpeg"
)

func main() {
	var (
		leftPath  string
		rightPath string
		outLeft   string
		outRight  string
		ndisps    int
		iters     int
		radius    int
		seed      uint64
		scale     float64
		slanted   bool
		noPost    bool
	)
	flag.StringVar(&leftPath, "left", "", "left view image (png or jpeg)")
	flag.StringVar(&rightPath, "right", "", "right view image (png or jpeg)")
	flag.StringVar(&outLeft, "out-left", "displ.png", "output left disparity png")
	flag.StringVar(&outRight, "out-right", "dispr.png", "output right disparity png")
	flag.IntVar(&ndisps, "ndisps", 60, "number of disparity hypotheses")
	flag.IntVar(&iters, "iters", 2, "optimizer iterations")
	flag.IntVar(&radius, "radius", 17, "support window radius")
	flag.Uint64Var(&seed, "seed", 0, "rng seed (0 = nondeterministic)")
	flag.Float64Var(&scale, "scale", 4, "gray levels per disparity unit in the output")
	flag.BoolVar(&slanted, "slanted", false, "allow slanted planes instead of fronto-parallel only")
	flag.BoolVar(&noPost, "no-post", false, "skip cross-check and median filtering")
	flag.Parse()

	if leftPath == "" || rightPath == "" {
		fmt.Fprintln(os.Stderr, "usage: pmsgo -left <image> -right <image> [-ndisps N] [-out-left out.png]")
		os.Exit(2)
	}

	imL, err := loadImage(leftPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	imR, err := loadImage(rightPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := pms.ConfigInit(ndisps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.MaxIters = iters
	cfg.PatchRadius = radius
	cfg.RNGSeed = seed
	cfg.FrontoParallelOnly = !slanted
	cfg.PostProcessing = !noPost
	cfg.ProgressCallback = func(p float32) {
		slog.Info("optimizer pass done", "progress", fmt.Sprintf("%.0f%%", p*100))
	}

	ctx, err := pms.ContextAlloc(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tic := time.Now()
	dsiL, err := pms.CensusVolume(imL.Gray(), imR.Gray(), ndisps, -1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dsiR, err := pms.CensusVolume(imR.Gray(), imL.Gray(), ndisps, +1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.Info("census volumes built", "took", time.Since(tic))

	dispL := pms.NewDispMap(imL.Rows, imL.Cols)
	dispR := pms.NewDispMap(imL.Rows, imL.Cols)

	tic = time.Now()
	if err := ctx.Run(imL, imR, dsiL, dsiR, dispL, dispR); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.Info("matcher finished", "took", time.Since(tic), "improvements", ctx.ImproveCount())

	if err := writeDisparity(outLeft, dispL, scale); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeDisparity(outRight, dispR, scale); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadImage(path string) (*pms.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	b := src.Bounds()
	im := pms.NewImage(b.Dy(), b.Dx(), 3)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			px := im.At(y, x)
			px[0] = uint8(r >> 8)
			px[1] = uint8(g >> 8)
			px[2] = uint8(bl >> 8)
		}
	}
	return im, nil
}

func writeDisparity(path string, disp *pms.DispMap, scale float64) error {
	out := image.NewGray(image.Rect(0, 0, disp.Cols, disp.Rows))
	for y := 0; y < disp.Rows; y++ {
		for x := 0; x < disp.Cols; x++ {
			v := float64(disp.At(y, x)) * scale
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.SetGray(x, y, color.Gray{Y: uint8(v + 0.5)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, out)
}
