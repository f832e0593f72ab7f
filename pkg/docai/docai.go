// Package docai bootstraps instance annotations from Google Document AI.
//
// Unlabeled documents can be run through a Document AI form parser
// processor; each detected form field becomes a question/answer annotation
// pair with a linking edge between them, in the same instance-annotation
// format hand-labeled datasets use. The result is a starting point for
// dataset extraction, not a substitute for human labeling: Document AI's
// field detection is only as good as the processor.
//
// Usage Requirements:
//
// - Google Cloud project with the Document AI API enabled
// - A form parser processor
// - Authentication via the GOOGLE_APPLICATION_CREDENTIALS environment variable
package docai

// Config holds the Document AI processor coordinates.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}
