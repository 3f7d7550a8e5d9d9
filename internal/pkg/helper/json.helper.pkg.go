package helper

import (
	"encoding/json"
)

func JSONToString(payload any) (string, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

func ByteToStruct[I any](payload []byte, result *I) error {
	return json.Unmarshal(payload, result)
}
