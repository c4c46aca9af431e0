package formatconfig

import (
	"os"

	"github.com/tidwall/gjson"
)

// Read returns the raw bytes of the document at path after checking that it is JSON.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, &InvalidJSONError{Path: path}
	}
	return data, nil
}

// Lookup returns the value at a gjson path (e.g. "lineLength",
// "indentation.spaces", "rules.NeverForceUnwrap") in the document at path.
// Scalars are returned as plain text, objects and arrays as raw JSON.
func Lookup(path, key string) (string, error) {
	data, err := Read(path)
	if err != nil {
		return "", err
	}

	v := gjson.GetBytes(data, key)
	if !v.Exists() {
		return "", &KeyNotFoundError{Path: path, Key: key}
	}
	if v.IsObject() || v.IsArray() {
		return v.Raw, nil
	}
	return v.String(), nil
}
