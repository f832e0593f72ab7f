package hocr

import (
	"fmt"
	"strings"

	"github.com/donutprep/donutprep/pkg/funsd"
)

// LineText joins a line's words with single spaces.
func LineText(line Line) string {
	words := make([]string, 0, len(line.Words))
	for _, w := range line.Words {
		words = append(words, w.Text)
	}
	return strings.Join(words, " ")
}

// Annotations converts a parsed page into unlabeled annotation regions,
// one per recognized line. Labels are left empty and no linking is
// attached; both are filled in by hand (or a downstream labeler) before
// key-value extraction.
func Annotations(page Page) []funsd.Annotation {
	var annotations []funsd.Annotation
	for i, line := range page.Lines {
		text := LineText(line)
		if text == "" {
			continue
		}
		annotations = append(annotations, funsd.Annotation{
			ID:   i,
			Text: text,
		})
	}
	return annotations
}

// AnnotationFile converts a whole hOCR document into the instance
// annotation format, keyed by each page's image name. Pages without an
// image name get a synthesized page_N.png key.
func AnnotationFile(doc HOCR) funsd.AnnotationFile {
	file := make(funsd.AnnotationFile, len(doc.Pages))
	for i, page := range doc.Pages {
		name := page.ImageName
		if name == "" {
			name = fmt.Sprintf("page_%d.png", i+1)
		}
		file[name] = Annotations(page)
	}
	return file
}
