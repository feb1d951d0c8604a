// Package schema embeds the JSON schemas for the project config and the
// leaderboard scores file.
package schema

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const (
	ProjectConfig = "config.schema.json"
	Leaderboard   = "leaderboard.schema.json"
)

//go:embed v1/*.schema.json
var builtin embed.FS

// ValidateBuiltin checks doc against one of the schemas shipped with the
// binary, such as ProjectConfig or Leaderboard.
func ValidateBuiltin(name string, doc any) ([]string, error) {
	raw, err := builtin.ReadFile("v1/" + name)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	return validate(gojsonschema.NewBytesLoader(raw), name, doc)
}

func validate(schemaLoader gojsonschema.JSONLoader, name string, doc any) ([]string, error) {
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
