package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationReport summarizes a metadata file check.
type ValidationReport struct {
	Records int // lines checked
	Bad     int // records whose ground truth failed a check
}

// ValidateMetadata re-reads a metadata.jsonl file and checks every record:
// the ground_truth string must be valid JSON with a gt_parse object, and
// when a text_sequence is present it must carry the task's framing tags.
// Individual bad records are counted, not fatal.
func ValidateMetadata(path, task string) (*ValidationReport, error) {
	records, err := ReadMetadata(path)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{Records: len(records)}
	for _, record := range records {
		if !groundTruthOK(record.GroundTruth, task) {
			report.Bad++
		}
	}
	return report, nil
}

func groundTruthOK(groundTruth, task string) bool {
	var payload struct {
		GtParse json.RawMessage `json:"gt_parse"`
	}
	if err := json.Unmarshal([]byte(groundTruth), &payload); err != nil {
		return false
	}
	if len(payload.GtParse) == 0 {
		return false
	}

	// A sequenced payload must be framed by the task's start and end tags.
	var seq struct {
		TextSequence *string `json:"text_sequence"`
	}
	if err := json.Unmarshal(payload.GtParse, &seq); err != nil {
		// gt_parse is a raw key-value object; nothing further to check.
		return true
	}
	if seq.TextSequence == nil {
		return true
	}
	return strings.HasPrefix(*seq.TextSequence, fmt.Sprintf("<s_%s>", task)) &&
		strings.HasSuffix(*seq.TextSequence, fmt.Sprintf("</s_%s>", task))
}
