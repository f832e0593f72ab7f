// Package donut implements the tagged-sequence serialization format
// consumed and produced by Donut-style document understanding models.
//
// A key-value map is serialized as a flat sequence of special tokens:
//
//	<s_TASK><s_key1>value1</s_key1><s_key2>value2</s_key2></s_TASK>
//
// The grammar is a de facto wire contract with the downstream model's
// tokenizer: the tag spellings must match its special-token conventions
// exactly, so no escaping of tag delimiter substrings is performed. If a
// key or value literally contains tag delimiters the output is ambiguous;
// this is a known limitation of the format, not something this package
// papers over.
//
// The package also builds the ground-truth payloads written into dataset
// metadata files and the task prompts used at inference time.
package donut

import (
	"bytes"
	"encoding/json"

	"github.com/donutprep/donutprep/pkg/funsd"
)

// GroundTruthFormat selects how a key-value map is wrapped into the
// ground_truth field of a metadata record.
type GroundTruthFormat string

const (
	// FormatRaw wraps the raw key-value map: {"gt_parse": {...}}.
	FormatRaw GroundTruthFormat = "raw"
	// FormatSequence wraps the encoded tag sequence:
	// {"gt_parse": {"text_sequence": "<s_TASK>...</s_TASK>"}}.
	FormatSequence GroundTruthFormat = "sequence"
)

// Valid reports whether the format is one of the supported encodings.
func (f GroundTruthFormat) Valid() bool {
	return f == FormatRaw || f == FormatSequence
}

// MetadataRecord is one line of a metadata.jsonl file: the image filename
// and its JSON-encoded ground truth string.
type MetadataRecord struct {
	FileName    string `json:"file_name"`
	GroundTruth string `json:"ground_truth"`
}

// EncodeLine renders the record as one compact JSON line (without the
// trailing newline). Multibyte runes and tag delimiters are preserved
// verbatim.
func (r MetadataRecord) EncodeLine() (string, error) {
	return marshalCompact(r)
}

// GroundTruth builds the ground_truth payload for a key-value map in the
// requested format.
func GroundTruth(format GroundTruthFormat, task string, kv funsd.KVMap) (string, error) {
	switch format {
	case FormatSequence:
		return marshalCompact(map[string]any{
			"gt_parse": map[string]any{"text_sequence": EncodeSequence(task, kv)},
		})
	default:
		return marshalCompact(map[string]any{"gt_parse": kv})
	}
}

// marshalCompact is json.Marshal without HTML escaping, so the sequence
// tags survive as literal "<" and ">".
func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
