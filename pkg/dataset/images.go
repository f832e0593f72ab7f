package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/donutprep/donutprep/pkg/imaging"
)

// PopulateImages copies the images referenced by each split's metadata
// file into the split directory. With ResizeImages set, each image is
// normalized onto the configured canvas instead of copied verbatim.
// A missing source image is logged and skipped.
func PopulateImages(cfg Config) error {
	for _, splitName := range SplitNames {
		metadataPath := filepath.Join(cfg.OutputDir, splitName, "metadata.jsonl")
		records, err := ReadMetadata(metadataPath)
		if err != nil {
			return err
		}

		copied := 0
		for _, record := range records {
			src := filepath.Join(cfg.ImagesDir, record.FileName)
			dst := filepath.Join(cfg.OutputDir, splitName, record.FileName)

			if err := cfg.placeImage(src, dst); err != nil {
				cfg.logf("warning: %s: %v", record.FileName, err)
				continue
			}
			copied++
		}
		cfg.logf("%s: placed %d images", splitName, copied)
	}
	return nil
}

func (c Config) placeImage(src, dst string) error {
	if !c.ResizeImages {
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read source image: %w", err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		return nil
	}

	img, err := imaging.Load(src)
	if err != nil {
		return err
	}
	normalized, err := imaging.Normalize(img, c.CanvasWidth, c.CanvasHeight)
	if err != nil {
		return err
	}
	return imaging.SavePNG(normalized, dst)
}
