package game

import (
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// decodeBackground reads a PNG rug image from disk.
func decodeBackground(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}

// loadBackground returns nil when the image cannot be read; the renderer
// then draws a blank rug.
func loadBackground(path string, logger *slog.Logger) *ebiten.Image {
	img, err := decodeBackground(path)
	if err != nil {
		logger.Warn("background unavailable, using blank rug", "err", err)
		return nil
	}
	return ebiten.NewImageFromImage(img)
}
