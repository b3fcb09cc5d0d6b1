package backend

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// The backend is an opaque collaborator; list payloads are checked against
// embedded JSON Schemas before decoding so a contract drift surfaces as a
// readable error instead of silently zeroed fields.

//go:embed schemas/*.json
var schemaFiles embed.FS

const (
	jobsSchema       = "schemas/jobs.json"
	applicantsSchema = "schemas/applicants.json"
)

// ContractError reports a backend payload that does not match the expected
// wire contract.
type ContractError struct {
	Schema string
	Fields []string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("payload does not match %s: %s", e.Schema, strings.Join(e.Fields, "; "))
}

// validatePayload checks a raw JSON payload against one of the embedded
// schemas. Schema load failures are programmer errors and reported as such.
func validatePayload(schemaPath string, payload []byte) error {
	schemaBytes, err := schemaFiles.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("loading embedded schema %s: %w", schemaPath, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("validating against %s: %w", schemaPath, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ContractError{Schema: schemaPath, Fields: fields}
}
