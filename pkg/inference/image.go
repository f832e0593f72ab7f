package inference

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/donutprep/donutprep/pkg/imaging"
)

// Default input canvas, matching the dataset build defaults.
const (
	DefaultCanvasWidth  = 960
	DefaultCanvasHeight = 1280
)

// PrepareImage loads an image file and normalizes it onto the model's
// input canvas, returning PNG bytes ready for upload. The serving side
// expects the same letterboxed geometry the training images were built
// with.
func PrepareImage(path string, width, height int) ([]byte, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	normalized, err := imaging.Normalize(img, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, fmt.Errorf("failed to encode normalized image: %w", err)
	}
	return buf.Bytes(), nil
}
