// docai is a command-line tool for bootstrapping instance annotations from
// Google Document AI.
//
// It sends a PDF or image to a Document AI form parser processor and
// converts the detected form fields into the instance-annotation JSON
// format the annotate tool consumes: each field becomes a question/answer
// annotation pair with a linking edge. The result is a labeling starting
// point for documents that have no hand-made annotations yet.
//
// Configuration:
//
// The tool requires a YAML configuration file with Document AI settings:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//
// Authentication uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable.
//
// Usage:
//
//	docai -config config.yml -input form.pdf -out form_annotations.json
//
// Flags:
//
//	-config string      Path to the YAML configuration file (required)
//	-input string       Path to the input PDF or image (required)
//	-out string         Path to save the annotation JSON (required)
//	-image-name string  Image filename key in the annotation file
//	                    (default: input basename with a .png extension)
//	-debug-api string   Path to save the raw API response as JSON
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donutprep/donutprep/pkg/docai"
)

// mimeTypes maps input file extensions to Document AI mime types.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file (required)")
	inputPath := flag.String("input", "", "Path to the input PDF or image (required)")
	outPath := flag.String("out", "", "Path to save the annotation JSON (required)")
	imageName := flag.String("image-name", "", "Image filename key in the annotation file")
	debugAPIPath := flag.String("debug-api", "", "Path to save the raw API response as JSON")
	flag.Parse()

	if *configPath == "" || *inputPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config, -input and -out flags are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	mimeType, ok := mimeTypes[strings.ToLower(filepath.Ext(*inputPath))]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unsupported input extension %q\n", filepath.Ext(*inputPath))
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	fmt.Println("Processing document with Document AI:", *inputPath)
	doc, err := docai.Process(context.Background(), content, mimeType, cfg)
	if err != nil {
		log.Fatalf("Error processing document: %v", err)
	}

	if *debugAPIPath != "" {
		apiJSON, err := docai.ToJSON(doc)
		if err != nil {
			log.Fatalf("Failed to convert API response to JSON: %v", err)
		}
		if err := os.WriteFile(*debugAPIPath, []byte(apiJSON), 0644); err != nil {
			log.Fatalf("Failed to write API response JSON: %v", err)
		}
		fmt.Println("API response JSON saved to:", *debugAPIPath)
	}

	key := *imageName
	if key == "" {
		base := filepath.Base(*inputPath)
		key = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}

	file := docai.AnnotationFile(doc, key)
	if err := writeIndentedJSON(*outPath, file); err != nil {
		log.Fatalf("Failed to write annotation file: %v", err)
	}
	fmt.Printf("Saved %d annotations for %s to: %s\n", len(file[key]), key, *outPath)
}

func loadConfig(path string) (docai.Config, error) {
	var cfg docai.Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

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
