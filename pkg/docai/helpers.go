package docai

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON converts a value to a JSON string, using protojson for protocol
// buffer messages (the raw Document AI response) and the standard encoder
// for everything else. Used for debug dumps.
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonData), nil
	}
}
