package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/donutprep/donutprep/pkg/donut"
	"github.com/donutprep/donutprep/pkg/funsd"
	"github.com/donutprep/donutprep/pkg/split"
)

// Build runs the full pipeline: list annotation files, partition them
// deterministically, write per-split metadata files, and optionally
// populate the split directories with images.
func Build(cfg Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := ListAnnotationFiles(cfg.AnnotationsDir)
	if err != nil {
		return nil, err
	}
	cfg.logf("found %d annotation files in %s", len(files), cfg.AnnotationsDir)

	partition := split.Split(files, cfg.Ratios, cfg.Seed)
	cfg.logf("split: train=%d validation=%d test=%d",
		len(partition.Train), len(partition.Validation), len(partition.Test))

	stats := &Stats{Total: len(files)}
	assignments := []struct {
		name  string
		files []string
	}{
		{SplitTrain, partition.Train},
		{SplitValidation, partition.Validation},
		{SplitTest, partition.Test},
	}

	for _, a := range assignments {
		splitStats, err := cfg.writeMetadata(a.name, a.files)
		if err != nil {
			return nil, err
		}
		stats.Splits = append(stats.Splits, splitStats)
	}

	if cfg.CopyImages || cfg.ResizeImages {
		if err := PopulateImages(cfg); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// ListAnnotationFiles returns the sorted basenames of the .json files in
// dir. The sorted order is the pre-shuffle ordering the deterministic
// split contract depends on.
func ListAnnotationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// ImageName maps an annotation basename to its image basename.
func ImageName(jsonName string) string {
	return strings.TrimSuffix(jsonName, ".json") + ".png"
}

// writeMetadata writes one split's metadata.jsonl. Records whose JSON does
// not parse or whose image is missing are logged and skipped; the split
// can end up smaller than its nominal count.
func (c Config) writeMetadata(splitName string, files []string) (SplitStats, error) {
	stats := SplitStats{Name: splitName, Assigned: len(files)}

	splitDir := filepath.Join(c.OutputDir, splitName)
	if err := os.MkdirAll(splitDir, 0755); err != nil {
		return stats, fmt.Errorf("failed to create split directory: %w", err)
	}

	metadataPath := filepath.Join(splitDir, "metadata.jsonl")
	f, err := os.Create(metadataPath)
	if err != nil {
		return stats, fmt.Errorf("failed to create metadata file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, jsonName := range files {
		kv, err := readKVFile(filepath.Join(c.AnnotationsDir, jsonName))
		if err != nil {
			c.logf("warning: skipping %s: %v", jsonName, err)
			stats.Skipped++
			continue
		}

		imageName := ImageName(jsonName)
		if _, err := os.Stat(filepath.Join(c.ImagesDir, imageName)); err != nil {
			c.logf("warning: image %s not found, skipping", imageName)
			stats.Skipped++
			continue
		}

		groundTruth, err := donut.GroundTruth(c.Format, c.TaskName, kv)
		if err != nil {
			return stats, fmt.Errorf("failed to encode ground truth for %s: %w", jsonName, err)
		}

		line, err := donut.MetadataRecord{FileName: imageName, GroundTruth: groundTruth}.EncodeLine()
		if err != nil {
			return stats, fmt.Errorf("failed to encode metadata record for %s: %w", jsonName, err)
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return stats, fmt.Errorf("failed to write metadata record: %w", err)
		}
		stats.Processed++
	}
	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush metadata file: %w", err)
	}

	c.logf("%s: wrote %d records to %s (%d skipped)",
		splitName, stats.Processed, metadataPath, stats.Skipped)
	return stats, nil
}

// readKVFile reads one per-image key-value JSON file preserving key order.
func readKVFile(path string) (funsd.KVMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kv funsd.KVMap
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("invalid key-value JSON: %w", err)
	}
	return kv, nil
}

// ReadMetadata reads back the records of a metadata.jsonl file.
func ReadMetadata(path string) ([]donut.MetadataRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	var records []donut.MetadataRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record donut.MetadataRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("invalid metadata line: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	return records, nil
}
