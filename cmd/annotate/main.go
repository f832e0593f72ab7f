// annotate is a command-line tool for extracting key-value annotations from
// FUNSD-style instance-annotation files.
//
// For every annotated image it derives the directed key-value pairs implied
// by the annotation linking data (question→answer, header→question) and
// writes them as one compact JSON file per image, the input format of the
// dataset build tool. It can also convert an hOCR file into an unlabeled
// instance-annotation skeleton for manual labeling.
//
// Usage:
//
//	annotate -annotations en.json -out ./kv_jsons [options]
//	annotate -from-hocr page.hocr -out annotations.json
//
// Flags:
//
//	-annotations string  Path to the instance-annotation JSON file
//	-out string          Output directory for per-image key-value JSON files
//	                     (or output file path in -from-hocr mode)
//	-image string        Process only this image (e.g. 0000971160.png)
//	-stats               Print per-image entity and relation summaries
//	-from-hocr string    Convert an hOCR file into instance-annotation JSON
//
// Examples:
//
//	annotate -annotations en.json -out ./kv_jsons -stats
//	annotate -annotations en.json -out ./kv_single -image 0000971160.png
//	annotate -from-hocr scan.hocr -out scan_annotations.json
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/donutprep/donutprep/pkg/funsd"
	"github.com/donutprep/donutprep/pkg/hocr"
)

func main() {
	annotationsPath := flag.String("annotations", "", "Path to the instance-annotation JSON file")
	outPath := flag.String("out", "", "Output directory (or file in -from-hocr mode)")
	imageName := flag.String("image", "", "Process only this image")
	stats := flag.Bool("stats", false, "Print per-image entity and relation summaries")
	hocrPath := flag.String("from-hocr", "", "Convert an hOCR file into instance-annotation JSON")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -out flag is required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if (*annotationsPath == "") == (*hocrPath == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -annotations or -from-hocr must be provided")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *hocrPath != "" {
		convertHOCR(*hocrPath, *outPath)
		return
	}

	file, err := funsd.ParseAnnotationFile(*annotationsPath)
	if err != nil {
		log.Fatalf("Failed to load annotations: %v", err)
	}

	names := funsd.ImageNames(file)
	if *imageName != "" {
		if _, ok := file[*imageName]; !ok {
			log.Fatalf("Image %s not found in the annotation file", *imageName)
		}
		names = []string{*imageName}
	}

	if err := os.MkdirAll(*outPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	saved := 0
	for _, name := range names {
		page := funsd.ExtractPage(file[name])
		pairs := funsd.MapKeyValuePairs(page)
		kv := funsd.FlattenPairs(pairs)

		if *stats {
			printStats(name, page, pairs)
		}

		jsonName := strings.TrimSuffix(name, ".png") + ".json"
		target := filepath.Join(*outPath, jsonName)
		if err := writeIndentedJSON(target, kv); err != nil {
			log.Fatalf("Failed to write %s: %v", target, err)
		}
		fmt.Printf("Saved %d key-value pairs for %s to: %s\n", len(kv), name, target)
		saved++
	}
	fmt.Printf("Total: %d JSON files saved to %s\n", saved, *outPath)
}

// convertHOCR turns an hOCR file into an unlabeled instance-annotation
// JSON skeleton.
func convertHOCR(hocrPath, outPath string) {
	data, err := os.ReadFile(hocrPath)
	if err != nil {
		log.Fatalf("Failed to read hOCR file: %v", err)
	}
	doc, err := hocr.Parse(data)
	if err != nil {
		log.Fatalf("Failed to parse hOCR file: %v", err)
	}

	file := hocr.AnnotationFile(doc)
	if err := writeIndentedJSON(outPath, file); err != nil {
		log.Fatalf("Failed to write annotation file: %v", err)
	}
	fmt.Printf("Converted %d hOCR pages into annotation skeleton: %s\n", len(doc.Pages), outPath)
}

func printStats(name string, page *funsd.Page, pairs []funsd.KeyValuePair) {
	groups := funsd.GroupEntities(page)
	fmt.Printf("\n%s\n", name)
	fmt.Printf("  texts=%d labels=%d relations=%d\n",
		len(page.Texts), len(page.Labels), len(page.Relations))
	fmt.Printf("  headers=%d questions=%d answers=%d others=%d\n",
		len(groups.Headers), len(groups.Questions), len(groups.Answers), len(groups.Others))
	for _, pair := range pairs {
		fmt.Printf("  %s: %q -> %q\n", pair.Type, pair.Key, pair.Value)
	}
}

// writeIndentedJSON marshals v without HTML escaping and writes it
// pretty-printed.
func writeIndentedJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
