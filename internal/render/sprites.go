package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/clobberplay/internal/board"
)

//go:embed assets/*.svg
var stoneAssets embed.FS

var stoneFiles = [2]string{
	board.White: "assets/white.svg",
	board.Black: "assets/black.svg",
}

// Sprites rasterizes the stone SVGs once per size.
type Sprites struct {
	mu    sync.Mutex
	cache map[int]*[2]*image.RGBA
}

// NewSprites creates an empty sprite cache.
func NewSprites() *Sprites {
	return &Sprites{cache: make(map[int]*[2]*image.RGBA)}
}

// Stone returns the stone of side rendered at size x size pixels.
func (s *Sprites) Stone(side board.Side, size int) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.cache[size]; ok {
		return set[side], nil
	}

	var set [2]*image.RGBA
	for sd, path := range stoneFiles {
		img, err := rasterizeSVG(path, size)
		if err != nil {
			return nil, err
		}
		set[sd] = img
	}
	s.cache[size] = &set
	return set[side], nil
}

// rasterizeSVG renders an embedded SVG with anti-aliasing.
func rasterizeSVG(path string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid sprite size %d", size)
	}
	data, err := stoneAssets.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}
