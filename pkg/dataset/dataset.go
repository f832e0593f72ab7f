// Package dataset builds Donut-format training datasets from per-image
// key-value annotation files and their corresponding document images.
//
// A build deterministically partitions the annotation files into train,
// validation and test splits, encodes each image's key-value map as a
// ground-truth payload, and writes one line-delimited metadata record per
// image into <output>/<split>/metadata.jsonl. Optionally the images
// themselves are copied into the split directories, either verbatim or
// normalized onto a fixed canvas.
//
// Individual record failures (missing image, unparseable JSON) are
// warnings, not errors: the record is skipped, a line is logged, and the
// batch continues. Partial success is the expected outcome and is reported
// through per-split counts.
package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/donutprep/donutprep/pkg/donut"
	"github.com/donutprep/donutprep/pkg/split"
)

// Split directory names, in build order.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// SplitNames lists the three split directories in build order.
var SplitNames = []string{SplitTrain, SplitValidation, SplitTest}

// Config holds the full set of build options. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	AnnotationsDir string `yaml:"annotations_dir"` // directory of per-image KV JSON files
	ImagesDir      string `yaml:"images_dir"`      // directory of corresponding .png images
	OutputDir      string `yaml:"output_dir"`      // dataset output root

	TaskName string                  `yaml:"task_name"` // task token for sequence encoding
	Format   donut.GroundTruthFormat `yaml:"format"`    // raw or sequence

	Ratios split.Ratios `yaml:"ratios"`
	Seed   int64        `yaml:"seed"`

	CopyImages   bool `yaml:"copy_images"`   // copy images into split dirs
	ResizeImages bool `yaml:"resize_images"` // normalize instead of verbatim copy
	CanvasWidth  int  `yaml:"canvas_width"`
	CanvasHeight int  `yaml:"canvas_height"`

	// Logger receives skip warnings and progress lines. Nil means stderr.
	Logger io.Writer `yaml:"-"`
}

// DefaultConfig returns a config with the conventional defaults: 70/15/15
// split, seed 123, raw ground truth, 960x1280 canvas.
func DefaultConfig() Config {
	return Config{
		Format:       donut.FormatRaw,
		Ratios:       split.DefaultRatios,
		Seed:         split.DefaultSeed,
		CanvasWidth:  960,
		CanvasHeight: 1280,
	}
}

// Validate checks that the config describes a runnable build.
func (c Config) Validate() error {
	if c.AnnotationsDir == "" {
		return fmt.Errorf("annotations directory is required")
	}
	if c.ImagesDir == "" {
		return fmt.Errorf("images directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if !c.Format.Valid() {
		return fmt.Errorf("unknown ground truth format %q", c.Format)
	}
	if c.Format == donut.FormatSequence && c.TaskName == "" {
		return fmt.Errorf("task name is required for sequence format")
	}
	if err := c.Ratios.Validate(); err != nil {
		return err
	}
	if c.ResizeImages && (c.CanvasWidth <= 0 || c.CanvasHeight <= 0) {
		return fmt.Errorf("invalid canvas %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	return nil
}

func (c Config) logger() io.Writer {
	if c.Logger == nil {
		return os.Stderr
	}
	return c.Logger
}

func (c Config) logf(format string, args ...any) {
	fmt.Fprintf(c.logger(), format+"\n", args...)
}

// SplitStats reports the outcome of one split.
type SplitStats struct {
	Name      string // split directory name
	Assigned  int    // files assigned by the partition
	Processed int    // records written to metadata.jsonl
	Skipped   int    // records dropped (missing image or bad JSON)
}

// Stats reports the outcome of a whole build.
type Stats struct {
	Total  int // annotation files found
	Splits []SplitStats
}

// Processed returns the total number of records written across splits.
func (s *Stats) Processed() int {
	n := 0
	for _, sp := range s.Splits {
		n += sp.Processed
	}
	return n
}

// Skipped returns the total number of records dropped across splits.
func (s *Stats) Skipped() int {
	n := 0
	for _, sp := range s.Splits {
		n += sp.Skipped
	}
	return n
}
