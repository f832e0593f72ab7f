package funsd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// AnnotationFile maps image filenames to their annotation lists. This is the
// top-level shape of an instance-annotation JSON document.
type AnnotationFile map[string][]Annotation

// ParseAnnotationFile reads and decodes an instance-annotation JSON file.
func ParseAnnotationFile(path string) (AnnotationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file: %w", err)
	}
	var file AnnotationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse annotation file: %w", err)
	}
	return file, nil
}

// Extract converts every image's annotation list into a Page.
// Annotation order is preserved in Texts and Labels, and every linking
// entry becomes one Relation in order of appearance.
func Extract(file AnnotationFile) map[string]*Page {
	pages := make(map[string]*Page, len(file))
	for name, annotations := range file {
		pages[name] = ExtractPage(annotations)
	}
	return pages
}

// ExtractPage builds a Page from a single image's annotation list.
func ExtractPage(annotations []Annotation) *Page {
	page := &Page{}
	for _, a := range annotations {
		page.Texts = append(page.Texts, TextEntry{ID: a.ID, Text: a.Text})
		page.Labels = append(page.Labels, LabelEntry{ID: a.ID, Label: a.Label})
		for _, link := range a.Linking {
			page.Relations = append(page.Relations, Relation{FromID: link.From, ToID: link.To})
		}
	}
	return page
}

// ImageNames returns the image filenames present in an annotation file,
// sorted for stable iteration.
func ImageNames(file AnnotationFile) []string {
	names := make([]string, 0, len(file))
	for name := range file {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
