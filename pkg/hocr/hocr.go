// Package hocr parses hOCR data, the HTML-based standard format for OCR
// results produced by Tesseract and friends, and converts it into the
// instance-annotation format the dataset tooling consumes.
//
// Only the subset of the hOCR hierarchy needed for annotation bootstrap is
// modeled: pages, lines and words. Each recognized line becomes one
// unlabeled annotation region (empty label, no linking), ready for manual
// labeling before dataset extraction.
package hocr

// HOCR is a parsed hOCR document.
type HOCR struct {
	Title    string // document title from the head section
	Language string // document language, if declared
	Pages    []Page
}

// Page is one page of recognized text (hOCR class 'ocr_page').
type Page struct {
	ID         string
	ImageName  string // source image filename from the title property
	PageNumber int    // ppageno title property, if present
	BBox       BoundingBox
	Lines      []Line
}

// Line is a recognized text line (hOCR class 'ocr_line').
type Line struct {
	ID    string
	BBox  BoundingBox
	Words []Word
}

// Word is a recognized word (hOCR class 'ocrx_word').
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf title property (0-100)
}

// BoundingBox is a rectangle in page coordinates, from hOCR 'bbox'
// title properties.
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}
