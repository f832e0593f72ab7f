// Package imaging normalizes document images onto a fixed-size canvas for
// model consumption.
//
// Normalization never crops: the source image is scaled to fit the target
// canvas while preserving its aspect ratio, then centered on a white
// letterbox background. Resampling uses the Catmull-Rom kernel, a
// high-quality filter suitable for downscaling scanned documents.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	_ "image/jpeg" // register JPEG decoding

	xdraw "golang.org/x/image/draw"
)

// Normalize renders src onto a width x height RGB canvas: the image is
// scaled by min(width/w, height/h), resampled with Catmull-Rom, and pasted
// centered on a white background. Padding offsets use floor division, so an
// odd leftover pixel goes to the right/bottom margin.
func Normalize(src image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target canvas %dx%d", width, height)
	}

	bounds := src.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()
	if origW == 0 || origH == 0 {
		return nil, fmt.Errorf("source image is empty")
	}

	scale := min(float64(width)/float64(origW), float64(height)/float64(origH))
	// Extreme aspect ratios can floor a dimension to zero; keep at least
	// one pixel so the content survives.
	newW := max(int(float64(origW)*scale), 1)
	newH := max(int(float64(origH)*scale), 1)

	resized := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), src, bounds, xdraw.Src, nil)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	padX := (width - newW) / 2
	padY := (height - newH) / 2
	target := image.Rect(padX, padY, padX+newW, padY+newH)
	draw.Draw(canvas, target, resized, image.Point{}, draw.Src)

	return canvas, nil
}

// Load reads and decodes an image file (PNG or JPEG).
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes an image to disk as PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG %s: %w", path, err)
	}
	return nil
}
