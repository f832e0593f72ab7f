// Package funsd implements parsing and extraction of FUNSD-style form
// understanding annotations, the instance-annotation format used by the
// FUNSD and SRFUND document datasets.
//
// The source of truth is a single JSON document mapping image filenames to
// lists of annotated text regions. Each region carries an id, the recognized
// text, a semantic label (header, question, answer, or anything else) and a
// set of linking references expressing directed relations between regions
// (a question points at its answer, a header at its questions).
//
// The package provides:
//
// - A typed object model for annotations, relations and extracted pages
// - Extraction of per-image pages preserving annotation order
// - Label classification into a fixed set of entity classes
// - Derivation of directed key-value pairs from linking relations
// - Flattening of key-value pairs into an ordered map with deterministic
//   duplicate-key renaming
//
// Main Functions:
//
// - ParseAnnotationFile: Reads the raw instance-annotation JSON from disk
// - Extract: Converts raw annotations into per-image Page structures
// - GroupEntities: Buckets a page's regions by entity class
// - MapKeyValuePairs: Derives key-value pairs from a page's relations
// - FlattenPairs: Flattens pairs into an ordered key-value map
package funsd

import "encoding/json"

// Annotation is one detected text region on a page.
type Annotation struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	Label   string  `json:"label"`
	Linking Linking `json:"linking,omitempty"`
}

// Link is a directed reference between two annotation ids.
type Link struct {
	From int
	To   int
}

// Linking is the list of directed references attached to an annotation.
// In the source format each entry is a 2-element array [from_id, to_id];
// entries of any other shape are silently dropped during decoding.
type Linking []Link

// UnmarshalJSON decodes a linking list, skipping malformed entries.
// An entry that is not a 2-element integer array is not an error in the
// source datasets, it is simply ignored.
func (l *Linking) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, entry := range raw {
		var pair []int
		if err := json.Unmarshal(entry, &pair); err != nil {
			continue
		}
		if len(pair) != 2 {
			continue
		}
		*l = append(*l, Link{From: pair[0], To: pair[1]})
	}
	return nil
}

// MarshalJSON encodes the linking list back into the source [[from, to],...]
// array form.
func (l Linking) MarshalJSON() ([]byte, error) {
	pairs := make([][2]int, 0, len(l))
	for _, link := range l {
		pairs = append(pairs, [2]int{link.From, link.To})
	}
	return json.Marshal(pairs)
}

// TextEntry associates an annotation id with its text content.
type TextEntry struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// LabelEntry associates an annotation id with its semantic label.
type LabelEntry struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Relation is one directed edge between two annotations, flattened out of
// the linking lists of a page's annotations.
type Relation struct {
	FromID int `json:"from_id"`
	ToID   int `json:"to_id"`
}

// Page holds everything extracted from one image's annotation list.
// Texts and Labels preserve the input order of the annotations; Relations
// preserve the order in which linking entries appear.
type Page struct {
	Texts     []TextEntry  `json:"texts"`
	Labels    []LabelEntry `json:"labels"`
	Relations []Relation   `json:"relations"`
}
