package funsd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVMapMarshalPreservesOrder(t *testing.T) {
	kv := KVMap{
		{Key: "z", Value: "1"},
		{Key: "a", Value: "2"},
		{Key: "m", Value: "3"},
	}

	data, err := json.Marshal(kv)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"2","m":"3"}`, string(data))
}

func TestKVMapMarshalNoHTMLEscaping(t *testing.T) {
	kv := KVMap{{Key: "tag", Value: "<s_x>v</s_x>"}}

	// Plain json.Marshal re-escapes marshaler output; the writers all use
	// encoders with HTML escaping off, so that is the contract under test.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(kv))
	assert.Equal(t, `{"tag":"<s_x>v</s_x>"}`, strings.TrimRight(buf.String(), "\n"))

	// And the default marshal path stays decodable even when it escapes.
	data, err := json.Marshal(kv)
	require.NoError(t, err)
	var back KVMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, kv, back)
}

func TestKVMapUnmarshalPreservesDocumentOrder(t *testing.T) {
	raw := `{"Total:": "100", "Date:": "2020", "Amount:": "50"}`

	var kv KVMap
	require.NoError(t, json.Unmarshal([]byte(raw), &kv))

	require.Len(t, kv, 3)
	assert.Equal(t, "Total:", kv[0].Key)
	assert.Equal(t, "Date:", kv[1].Key)
	assert.Equal(t, "Amount:", kv[2].Key)
}

func TestKVMapUnmarshalCoercesValues(t *testing.T) {
	raw := `{"s": "text", "n": 42, "f": 1.5, "b": true, "nil": null}`

	var kv KVMap
	require.NoError(t, json.Unmarshal([]byte(raw), &kv))

	require.Len(t, kv, 5)
	assert.Equal(t, "text", kv[0].Value)
	assert.Equal(t, "42", kv[1].Value)
	assert.Equal(t, "1.5", kv[2].Value)
	assert.Equal(t, "true", kv[3].Value)
	assert.Equal(t, "null", kv[4].Value)
}

func TestKVMapUnmarshalRejectsNonObject(t *testing.T) {
	var kv KVMap
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &kv))
}

func TestKVMapAccessors(t *testing.T) {
	kv := KVMap{{Key: "a", Value: "1"}}

	assert.True(t, kv.Has("a"))
	assert.False(t, kv.Has("b"))

	v, ok := kv.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = kv.Get("b")
	assert.False(t, ok)
}
