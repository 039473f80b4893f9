// internal/refdata/schema.go
package refdata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validateDocument checks a raw JSON document against a schema file in
// schemaDir.
func validateDocument(schemaDir, schemaFile string, raw []byte) error {
	schemaPath, err := filepath.Abs(filepath.Join(schemaDir, schemaFile))
	if err != nil {
		return fmt.Errorf("resolving schema path: %w", err)
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaPath))
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("running schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
