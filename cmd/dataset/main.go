// dataset is a command-line tool for building Donut-format training
// datasets from per-image key-value JSON files and their document images.
//
// The tool deterministically partitions the annotation files into train,
// validation and test splits (seeded shuffle, reproducible across runs),
// writes one metadata.jsonl per split, and can copy or resize the images
// into the split directories. Ground truth is written either as the raw
// key-value map or as the model's tag-sequence encoding.
//
// Configuration:
//
// All options can be given as flags, or collected in a YAML config file:
//
//	annotations_dir: ./kv_jsons
//	images_dir: ./images
//	output_dir: ./dataset
//	task_name: SRFUND
//	format: sequence
//	ratios: {train: 0.7, validation: 0.15, test: 0.15}
//	seed: 123
//	copy_images: true
//	resize_images: true
//	canvas_width: 960
//	canvas_height: 1280
//
// Explicit flags override config file values.
//
// Usage:
//
//	dataset -config dataset.yml
//	dataset -annotations ./kv_jsons -images ./images -out ./dataset \
//	        -task SRFUND -format sequence -resize
//
// Flags:
//
//	-config string       Path to a YAML config file
//	-annotations string  Directory of per-image key-value JSON files
//	-images string       Directory of corresponding .png images
//	-out string          Output dataset root
//	-task string         Task name for sequence encoding
//	-format string       Ground truth format: raw or sequence (default raw)
//	-train float         Train ratio (default 0.7)
//	-val float           Validation ratio (default 0.15)
//	-test float          Test ratio, informational only (default 0.15)
//	-seed int            Shuffle seed (default 123)
//	-copy-images         Copy images into the split directories
//	-resize              Resize and pad copied images onto the canvas
//	-width int           Canvas width in pixels (default 960)
//	-height int          Canvas height in pixels (default 1280)
//	-validate            Re-read and check the metadata files after the build
//	-preview             Write a review PDF per split
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donutprep/donutprep/pkg/dataset"
	"github.com/donutprep/donutprep/pkg/donut"
	"github.com/donutprep/donutprep/pkg/preview"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	annotationsDir := flag.String("annotations", "", "Directory of per-image key-value JSON files")
	imagesDir := flag.String("images", "", "Directory of corresponding .png images")
	outDir := flag.String("out", "", "Output dataset root")
	task := flag.String("task", "", "Task name for sequence encoding")
	format := flag.String("format", string(donut.FormatRaw), "Ground truth format: raw or sequence")
	trainRatio := flag.Float64("train", 0.7, "Train ratio")
	valRatio := flag.Float64("val", 0.15, "Validation ratio")
	testRatio := flag.Float64("test", 0.15, "Test ratio (informational only)")
	seed := flag.Int64("seed", 123, "Shuffle seed")
	copyImages := flag.Bool("copy-images", false, "Copy images into the split directories")
	resize := flag.Bool("resize", false, "Resize and pad copied images onto the canvas")
	width := flag.Int("width", 960, "Canvas width in pixels")
	height := flag.Int("height", 1280, "Canvas height in pixels")
	validate := flag.Bool("validate", false, "Re-read and check the metadata files after the build")
	previewPDF := flag.Bool("preview", false, "Write a review PDF per split")
	flag.Parse()

	provided := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		provided[f.Name] = true
	})

	cfg := dataset.DefaultConfig()
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Explicit flags take precedence over the config file.
	if provided["annotations"] {
		cfg.AnnotationsDir = *annotationsDir
	}
	if provided["images"] {
		cfg.ImagesDir = *imagesDir
	}
	if provided["out"] {
		cfg.OutputDir = *outDir
	}
	if provided["task"] {
		cfg.TaskName = *task
	}
	if provided["format"] {
		cfg.Format = donut.GroundTruthFormat(*format)
	}
	if provided["train"] {
		cfg.Ratios.Train = *trainRatio
	}
	if provided["val"] {
		cfg.Ratios.Validation = *valRatio
	}
	if provided["test"] {
		cfg.Ratios.Test = *testRatio
	}
	if provided["seed"] {
		cfg.Seed = *seed
	}
	if provided["copy-images"] {
		cfg.CopyImages = *copyImages
	}
	if provided["resize"] {
		cfg.ResizeImages = *resize
	}
	if provided["width"] {
		cfg.CanvasWidth = *width
	}
	if provided["height"] {
		cfg.CanvasHeight = *height
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	stats, err := dataset.Build(cfg)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	fmt.Println("Dataset build summary:")
	for _, sp := range stats.Splits {
		fmt.Printf("  %s: %d assigned, %d written, %d skipped\n",
			sp.Name, sp.Assigned, sp.Processed, sp.Skipped)
	}
	fmt.Printf("  total: %d files, %d written, %d skipped\n",
		stats.Total, stats.Processed(), stats.Skipped())

	if *validate {
		validateSplits(cfg)
	}
	if *previewPDF {
		writePreviews(cfg)
	}
}

func loadConfig(path string, cfg *dataset.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func validateSplits(cfg dataset.Config) {
	for _, splitName := range dataset.SplitNames {
		metadataPath := filepath.Join(cfg.OutputDir, splitName, "metadata.jsonl")
		report, err := dataset.ValidateMetadata(metadataPath, cfg.TaskName)
		if err != nil {
			log.Fatalf("Validation failed for %s: %v", splitName, err)
		}
		fmt.Printf("Validated %s: %d records, %d bad\n", splitName, report.Records, report.Bad)
	}
}

func writePreviews(cfg dataset.Config) {
	for _, splitName := range dataset.SplitNames {
		splitDir := filepath.Join(cfg.OutputDir, splitName)
		entries, err := preview.FromMetadata(filepath.Join(splitDir, "metadata.jsonl"), cfg.ImagesDir)
		if err != nil {
			log.Fatalf("Failed to collect preview entries for %s: %v", splitName, err)
		}
		if len(entries) == 0 {
			fmt.Printf("No records in %s, skipping preview\n", splitName)
			continue
		}

		previewCfg := preview.DefaultConfig()
		previewCfg.Title = fmt.Sprintf("%s %s preview", cfg.TaskName, splitName)
		pdfData, err := preview.Build(entries, previewCfg)
		if err != nil {
			log.Fatalf("Failed to build preview PDF for %s: %v", splitName, err)
		}

		target := filepath.Join(splitDir, "preview.pdf")
		if err := os.WriteFile(target, pdfData, 0644); err != nil {
			log.Fatalf("Failed to write preview PDF: %v", err)
		}
		fmt.Printf("Preview PDF for %s saved to: %s\n", splitName, target)
	}
}
