package donut

import (
	"fmt"
	"strings"

	"github.com/donutprep/donutprep/pkg/funsd"
)

// EncodeSequence serializes a key-value map into the model's tag-sequence
// format. Keys and values are stripped of leading and trailing whitespace;
// pair order follows the map's insertion order.
func EncodeSequence(task string, kv funsd.KVMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<s_%s>", task)
	for _, pair := range kv {
		key := strings.TrimSpace(pair.Key)
		value := strings.TrimSpace(pair.Value)
		fmt.Fprintf(&b, "<s_%s>%s</s_%s>", key, value, key)
	}
	fmt.Fprintf(&b, "</s_%s>", task)
	return b.String()
}

// ParseSequence is the inverse of EncodeSequence for well-formed sequences.
// It is used to sanity-check encoded metadata and to decode model output.
// Sequences whose values themselves contain tag delimiters are ambiguous
// and may not round-trip.
func ParseSequence(task, seq string) (funsd.KVMap, error) {
	open := fmt.Sprintf("<s_%s>", task)
	closing := fmt.Sprintf("</s_%s>", task)

	if !strings.HasPrefix(seq, open) {
		return nil, fmt.Errorf("sequence does not start with %s", open)
	}
	if !strings.HasSuffix(seq, closing) {
		return nil, fmt.Errorf("sequence does not end with %s", closing)
	}

	body := seq[len(open) : len(seq)-len(closing)]
	var kv funsd.KVMap
	for body != "" {
		if !strings.HasPrefix(body, "<s_") {
			return nil, fmt.Errorf("expected opening tag, got %q", truncate(body, 40))
		}
		end := strings.Index(body, ">")
		if end < 0 {
			return nil, fmt.Errorf("unterminated opening tag %q", truncate(body, 40))
		}
		key := body[len("<s_"):end]
		body = body[end+1:]

		closeTag := fmt.Sprintf("</s_%s>", key)
		valueEnd := strings.Index(body, closeTag)
		if valueEnd < 0 {
			return nil, fmt.Errorf("missing closing tag %s", closeTag)
		}
		kv = append(kv, funsd.KV{Key: key, Value: body[:valueEnd]})
		body = body[valueEnd+len(closeTag):]
	}
	return kv, nil
}

// TaskPrompt builds the inference prompt for a task. For the docvqa task
// the question is lowercased and embedded in the question/answer token
// frame the model expects; every other task is prompted with its bare
// start token.
func TaskPrompt(task, question string) string {
	if task == "docvqa" {
		return fmt.Sprintf("<s_%s><s_question>%s</s_question><s_answer>", task, strings.ToLower(question))
	}
	return fmt.Sprintf("<s_%s>", task)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
