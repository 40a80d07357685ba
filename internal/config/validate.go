// CUE schema validation code
package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	"uav-aoi-sim/internal/guard"
)

//go:embed schema.cue
var schemaSource string

// ValidateDocument checks a raw YAML config against the embedded CUE schema.
// Unknown keys and out-of-range values are rejected before decoding.
func ValidateDocument(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	file, err := yaml.Extract("config.yaml", data)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("cannot load YAML config: %w", err)
	}

	final := schema.LookupPath(cue.ParsePath("#Config")).Unify(doc)
	if err := final.Validate(); err != nil {
		return fmt.Errorf("%w: config schema: %v", guard.ErrInvalidParameter, err)
	}
	return nil
}
