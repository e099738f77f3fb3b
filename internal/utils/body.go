package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/buger/jsonparser"
)

// MaxBodyBytes caps request bodies read by StringFields
const MaxBodyBytes = 1 << 20

// FieldError reports the first request field that failed validation
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// StringFields reads the request body and returns the named fields, each guaranteed to be a
// present, non-empty string. JSON bodies are checked for the value type, so {"content": 5}
// is rejected. application/x-www-form-urlencoded bodies are accepted too.
func StringFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return formFields(w, r, names)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return JSONStringFields(body, names...)
}

// JSONStringFields extracts string fields from a raw JSON object. The whole body must be valid
// JSON and, as with JSON.parse, the last occurrence of a repeated key wins.
func JSONStringFields(body []byte, names ...string) (map[string]string, error) {
	if !json.Valid(body) {
		return nil, &FieldError{Field: "body", Reason: "is not valid JSON"}
	}

	type member struct {
		raw      []byte
		dataType jsonparser.ValueType
	}
	members := make(map[string]member)
	err := jsonparser.ObjectEach(body, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		members[string(key)] = member{raw: value, dataType: dataType}
		return nil
	})
	if err != nil {
		return nil, &FieldError{Field: "body", Reason: "must be a JSON object"}
	}

	fields := make(map[string]string, len(names))
	for _, name := range names {
		m, ok := members[name]
		if !ok {
			return nil, &FieldError{Field: name, Reason: "is required"}
		}
		if m.dataType != jsonparser.String {
			return nil, &FieldError{Field: name, Reason: "must be a string"}
		}
		value, err := jsonparser.ParseString(m.raw)
		if err != nil {
			return nil, &FieldError{Field: name, Reason: "is not a valid string"}
		}
		if value == "" {
			return nil, &FieldError{Field: name, Reason: "must not be empty"}
		}
		fields[name] = value
	}
	return fields, nil
}

func formFields(w http.ResponseWriter, r *http.Request, names []string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	fields := make(map[string]string, len(names))
	for _, name := range names {
		value := r.PostForm.Get(name)
		if value == "" {
			return nil, &FieldError{Field: name, Reason: "is required"}
		}
		fields[name] = value
	}
	return fields, nil
}
