// Package preview assembles review PDFs for dataset splits.
//
// A preview PDF has one page per dataset record: the document image on
// top and its decoded ground truth underneath, so a split can be eyeballed
// for labeling mistakes before any training run is started.
package preview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/donutprep/donutprep/pkg/funsd"
)

// Entry is one page of a preview PDF.
type Entry struct {
	Name    string // image filename, shown as the page heading
	Image   []byte // encoded image data (PNG or JPEG)
	Caption string // decoded ground truth text
}

// Config holds rendering options.
type Config struct {
	Title      string  // document title, shown on no page but set as PDF metadata
	FontName   string  // body font, e.g. "Helvetica"
	FontSize   float64 // caption font size in points
	Margin     float64 // page margin in points
	ImageShare float64 // fraction of the page height reserved for the image
}

// DefaultConfig returns rendering defaults suited for A4 review pages.
func DefaultConfig() Config {
	return Config{
		FontName:   "Helvetica",
		FontSize:   9,
		Margin:     36,
		ImageShare: 0.6,
	}
}

// Build renders the entries into a single PDF document.
func Build(entries []Entry, cfg Config) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries to render")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}

	for i, entry := range entries {
		if err := renderEntry(pdf, entry, cfg, i); err != nil {
			return nil, fmt.Errorf("failed to render page for %s: %w", entry.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderEntry(pdf *fpdf.Fpdf, entry Entry, cfg Config, index int) error {
	imgCfg, format, err := image.DecodeConfig(bytes.NewReader(entry.Image))
	if err != nil {
		return fmt.Errorf("failed to decode image config: %w", err)
	}

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	usableW := pageW - 2*cfg.Margin

	// Heading with the image filename.
	pdf.SetFont(cfg.FontName, "B", cfg.FontSize+2)
	pdf.SetXY(cfg.Margin, cfg.Margin)
	pdf.CellFormat(usableW, cfg.FontSize+4, latin1(entry.Name), "", 1, "L", false, 0, "")

	// Image scaled to fit the reserved area, aspect preserved.
	imageTop := pdf.GetY() + 6
	maxH := pageH*cfg.ImageShare - imageTop
	drawW := usableW
	drawH := drawW * float64(imgCfg.Height) / float64(imgCfg.Width)
	if drawH > maxH {
		drawH = maxH
		drawW = drawH * float64(imgCfg.Width) / float64(imgCfg.Height)
	}

	imageName := fmt.Sprintf("img%d", index)
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: strings.ToUpper(format)}
	pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(entry.Image))
	pdf.ImageOptions(imageName, cfg.Margin, imageTop, drawW, drawH, false, opts, 0, "")

	// Ground truth underneath.
	pdf.SetFont(cfg.FontName, "", cfg.FontSize)
	pdf.SetXY(cfg.Margin, imageTop+drawH+12)
	pdf.MultiCell(usableW, cfg.FontSize+3, latin1(entry.Caption), "", "L", false)
	return nil
}

// latin1 re-encodes text for fpdf's core fonts, falling back to the raw
// string when a character has no Latin-1 representation.
func latin1(s string) string {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return encoded
}

// FromMetadata loads preview entries for one split from its metadata file
// and images directory. Records whose line does not parse or whose image
// cannot be read are skipped.
func FromMetadata(metadataPath, imagesDir string) ([]Entry, error) {
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var record struct {
			FileName    string `json:"file_name"`
			GroundTruth string `json:"ground_truth"`
		}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}

		imageData, err := os.ReadFile(filepath.Join(imagesDir, record.FileName))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    record.FileName,
			Image:   imageData,
			Caption: CaptionFromGroundTruth(record.GroundTruth),
		})
	}
	return entries, nil
}

// CaptionFromGroundTruth renders a ground_truth payload as display text:
// sequenced payloads show the raw tag sequence, raw payloads one
// "key: value" line per pair in file order.
func CaptionFromGroundTruth(groundTruth string) string {
	var payload struct {
		GtParse json.RawMessage `json:"gt_parse"`
	}
	if err := json.Unmarshal([]byte(groundTruth), &payload); err != nil {
		return groundTruth
	}

	var seq struct {
		TextSequence *string `json:"text_sequence"`
	}
	if err := json.Unmarshal(payload.GtParse, &seq); err == nil && seq.TextSequence != nil {
		return *seq.TextSequence
	}

	var kv funsd.KVMap
	if err := json.Unmarshal(payload.GtParse, &kv); err != nil {
		return groundTruth
	}
	var b strings.Builder
	for _, pair := range kv {
		fmt.Fprintf(&b, "%s: %s\n", pair.Key, pair.Value)
	}
	return b.String()
}
