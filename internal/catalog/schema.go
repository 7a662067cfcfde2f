package catalog

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	schemaDirectory     = "directory"
	schemaUniversity    = "university"
	schemaEquivalencies = "equivalencies"
)

// ValidationError lists every schema violation found in a catalog document.
type ValidationError struct {
	Document string
	Errors   []FieldError
}

// FieldError is a single violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("catalog document ")
	sb.WriteString(ve.Document)
	sb.WriteString(" is invalid:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateDocument checks raw JSON against one of the embedded catalog schemas.
func ValidateDocument(schema, document string, raw []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schema/" + schema + ".schema.json")
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schema, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate %s against %s schema: %w", document, schema, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{
		Document: document,
		Errors:   make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
