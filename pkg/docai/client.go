package docai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Process sends document bytes to Google Document AI and returns the raw
// Document proto response. mimeType is the content type of the upload,
// e.g. "application/pdf" or "image/png".
func Process(ctx context.Context, content []byte, mimeType string, cfg Config) (*documentaipb.Document, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)

	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf(
		"projects/%s/locations/%s/processors/%s",
		cfg.ProjectID, cfg.Location, cfg.ProcessorID,
	)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.Document, nil
}
