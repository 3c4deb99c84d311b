package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

const filterRequestSchema = `{
	"type": "object",
	"properties": {
		"filter": {"type": "string"}
	},
	"required": ["filter"],
	"additionalProperties": false
}`

const compileRequestSchema = `{
	"type": "object",
	"properties": {
		"filter": {"type": "string"},
		"pairs": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"key": {"type": "string", "minLength": 1},
					"value": {}
				},
				"required": ["key"],
				"additionalProperties": false
			}
		},
		"search": {"type": "string"},
		"search_fields": {"type": "array", "items": {"type": "string"}},
		"strict": {"type": "boolean"}
	},
	"additionalProperties": false
}`

var (
	filterSchema  = mustSchema(filterRequestSchema)
	compileSchema = mustSchema(compileRequestSchema)
)

// mustSchema compiles a JSON Schema constant. Panics on an invalid schema.
func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid json schema: %v", err))
	}
	return schema
}

// requestError is a client error in the request body.
type requestError struct {
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (e *requestError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// decodeBody reads the request body, validates it against schema and
// decodes it into dst. Numbers decode as json.Number so integer operands
// stay integers.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &requestError{Message: "failed to read request body", Details: []string{err.Error()}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &requestError{Message: "request body is required"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &requestError{Message: "invalid JSON", Details: []string{err.Error()}}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return &requestError{Message: "request does not match schema", Details: details}
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		return &requestError{Message: "invalid JSON", Details: []string{err.Error()}}
	}
	return nil
}
