// infer runs single-image inference against a pretrained document
// understanding model behind a serving endpoint.
//
// It builds the task prompt (for docvqa, the question is embedded in the
// question/answer token frame), normalizes the image onto the model's
// input canvas, posts it to the serving endpoint, and prints the model's
// best prediction as JSON to standard output.
//
// Usage:
//
//	infer -pretrained_model_name_or_path ./model-srfund \
//	      -image_path form.png -task_name SRFUND
//
//	infer -pretrained_model_name_or_path ./model-docvqa \
//	      -image_path form.png -task_name docvqa \
//	      -question "What is the invoice date?" \
//	      -output_path result.json
//
// Flags:
//
//	-pretrained_model_name_or_path string  Model name or path, resolved by
//	                                       the serving process (required)
//	-image_path string                     Path to the input image (required)
//	-task_name string                      Task the model was fine-tuned on,
//	                                       e.g. cord, rvlcdip, SRFUND, docvqa
//	                                       (required)
//	-question string                       Question text (required for the
//	                                       docvqa task)
//	-output_path string                    Path to also save the result JSON
//	-server string                         Inference endpoint URL
//	-width int                             Input canvas width in pixels
//	-height int                            Input canvas height in pixels
//
// The tool exits 0 on success and 1 on any error. Argument validation
// failures are reported before any request is made.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/donutprep/donutprep/pkg/donut"
	"github.com/donutprep/donutprep/pkg/inference"
)

func main() {
	modelPath := flag.String("pretrained_model_name_or_path", "", "Model name or path (required)")
	imagePath := flag.String("image_path", "", "Path to the input image (required)")
	taskName := flag.String("task_name", "", "Task the model was fine-tuned on (required)")
	question := flag.String("question", "", "Question text (required for the docvqa task)")
	outputPath := flag.String("output_path", "", "Path to also save the result JSON")
	server := flag.String("server", "http://127.0.0.1:8501/inference", "Inference endpoint URL")
	width := flag.Int("width", inference.DefaultCanvasWidth, "Input canvas width in pixels")
	height := flag.Int("height", inference.DefaultCanvasHeight, "Input canvas height in pixels")
	flag.Parse()

	// Argument validation is fatal before any work begins.
	if *modelPath == "" || *imagePath == "" || *taskName == "" {
		fmt.Fprintln(os.Stderr, "Error: -pretrained_model_name_or_path, -image_path and -task_name are required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *taskName == "docvqa" && *question == "" {
		fmt.Fprintln(os.Stderr, "Error: -question is required when -task_name is 'docvqa'")
		os.Exit(1)
	}

	if err := run(*server, *modelPath, *imagePath, *taskName, *question, *outputPath, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "Error during inference: %v\n", err)
		os.Exit(1)
	}
}

func run(server, model, imagePath, task, question, outputPath string, width, height int) error {
	imageData, err := inference.PrepareImage(imagePath, width, height)
	if err != nil {
		return err
	}

	prompt := donut.TaskPrompt(task, question)
	fmt.Fprintf(os.Stderr, "Using prompt: %s\n", prompt)

	client := inference.NewClient(server, model)
	result, err := client.Infer(context.Background(), imageData, prompt)
	if err != nil {
		return err
	}

	best, err := result.Best()
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, best, "", "  "); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}

	fmt.Println(pretty.String())

	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(outputPath, pretty.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Result saved to:", outputPath)
	}
	return nil
}
