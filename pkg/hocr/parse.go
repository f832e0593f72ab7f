package hocr

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Parse converts raw hOCR data into a structured HOCR document. Input
// declaring a non-UTF-8 charset is decoded as ISO-8859-1 first, which
// covers the Latin-1 output some OCR engines still emit.
func Parse(data []byte) (HOCR, error) {
	var result HOCR

	decoded := data
	if cs := detectCharset(string(data)); cs != "" && cs != "utf-8" {
		converted, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s input: %w", cs, err)
		}
		decoded = converted
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	extractHead(&result, doc)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages = append(result.Pages, parsePage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// detectCharset pulls the charset token out of a meta tag, if any.
func detectCharset(content string) string {
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return ""
	}
	rest := content[idx+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// ParseTitle breaks an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// boundingBoxFromTitle extracts a bbox property, if present.
func boundingBoxFromTitle(title string) (BoundingBox, bool) {
	props := ParseTitle(title)
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return BoundingBox{}, false
	}
	x1, _ := strconv.ParseFloat(bbox[0], 64)
	y1, _ := strconv.ParseFloat(bbox[1], 64)
	x2, _ := strconv.ParseFloat(bbox[2], 64)
	y2, _ := strconv.ParseFloat(bbox[3], 64)
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}, true
}

func extractHead(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := attrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := attrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = n.FirstChild.Data
				}
				return
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func parsePage(n *html.Node) Page {
	page := Page{ID: attrVal(n, "id")}

	if title := attrVal(n, "title"); title != "" {
		if bbox, ok := boundingBoxFromTitle(title); ok {
			page.BBox = bbox
		}
		props := ParseTitle(title)
		if image, ok := props["image"]; ok && len(image) > 0 {
			page.ImageName = strings.Trim(image[0], `"`)
		}
		if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
			page.PageNumber, _ = strconv.Atoi(ppageno[0])
		}
	}

	// Lines can sit under areas and paragraphs at any depth; collect them
	// all in document order.
	var collectLines func(*html.Node)
	collectLines = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocr_line") {
			page.Lines = append(page.Lines, parseLine(node))
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collectLines(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLines(c)
	}
	return page
}

func parseLine(n *html.Node) Line {
	line := Line{ID: attrVal(n, "id")}
	if bbox, ok := boundingBoxFromTitle(attrVal(n, "title")); ok {
		line.BBox = bbox
	}

	var collectWords func(*html.Node)
	collectWords = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocrx_word") {
			word := parseWord(node)
			if word.Text != "" {
				line.Words = append(line.Words, word)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collectWords(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c)
	}
	return line
}

func parseWord(n *html.Node) Word {
	word := Word{ID: attrVal(n, "id")}

	title := attrVal(n, "title")
	if bbox, ok := boundingBoxFromTitle(title); ok {
		word.BBox = bbox
	}
	if wconf, ok := ParseTitle(title)["x_wconf"]; ok && len(wconf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(wconf[0], 64)
	}

	word.Text = strings.TrimSpace(textContent(n))
	return word
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(attrVal(n, "class"), class)
}
