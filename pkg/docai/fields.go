package docai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/donutprep/donutprep/pkg/funsd"
)

// Annotations converts the form fields detected in a Document AI response
// into instance annotations. Each field yields two regions: the field name
// labeled "question" and the field value labeled "answer", with a linking
// edge from question to answer. Ids are assigned in detection order across
// all pages. Fields with an empty name are dropped.
func Annotations(doc *documentaipb.Document) []funsd.Annotation {
	var annotations []funsd.Annotation
	nextID := 0

	for _, page := range doc.GetPages() {
		for _, field := range page.GetFormFields() {
			name := strings.TrimSpace(textFromLayout(field.GetFieldName(), doc.GetText()))
			name = strings.TrimSuffix(name, ":")
			value := strings.TrimSpace(textFromLayout(field.GetFieldValue(), doc.GetText()))
			if name == "" {
				continue
			}

			questionID := nextID
			answerID := nextID + 1
			nextID += 2

			annotations = append(annotations,
				funsd.Annotation{
					ID:      questionID,
					Text:    name,
					Label:   "question",
					Linking: funsd.Linking{{From: questionID, To: answerID}},
				},
				funsd.Annotation{
					ID:    answerID,
					Text:  value,
					Label: "answer",
				},
			)
		}
	}
	return annotations
}

// AnnotationFile wraps a document's annotations under an image filename,
// producing the top-level instance-annotation shape.
func AnnotationFile(doc *documentaipb.Document, imageName string) funsd.AnnotationFile {
	return funsd.AnnotationFile{imageName: Annotations(doc)}
}

// textFromLayout extracts text from a layout's text anchor segments.
// Segment offsets index into the document's full text by rune.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)

	var result strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}
