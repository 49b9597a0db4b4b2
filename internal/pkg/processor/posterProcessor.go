package processor

import (
	"fmt"
	"image"
	"image/gif"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// PosterProcessor renders a still preview of a finished GIF.
type PosterProcessor interface {
	Generate(gifPath, posterPath string) error
}

type posterProcessor struct {
	width  int
	height int
}

func NewPosterProcessor(width, height int) PosterProcessor {
	return &posterProcessor{width: width, height: height}
}

func (p *posterProcessor) Generate(gifPath, posterPath string) error {
	frame, err := firstFrame(gifPath)
	if err != nil {
		return fmt.Errorf("failed to load gif: %w", err)
	}

	thumb := imaging.Thumbnail(frame, p.width, p.height, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(posterPath), 0755); err != nil {
		return err
	}
	if err := imaging.Save(thumb, posterPath); err != nil {
		return fmt.Errorf("failed to save poster: %w", err)
	}
	return nil
}

func firstFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gifImg, err := gif.DecodeAll(file)
	if err != nil {
		return nil, err
	}

	if len(gifImg.Image) == 0 {
		return nil, fmt.Errorf("no frames in GIF")
	}
	return gifImg.Image[0], nil
}
