package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/crackerjack-ci/crackerjack/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var configLog = logger.New("config")

//go:embed schemas/settings_schema.json
var settingsSchemaJSON string

var (
	compileSchemaOnce sync.Once
	compiledSchema    *jsonschema.Schema
	compileSchemaErr  error
)

// getCompiledSchema compiles the embedded settings schema once and
// caches it, following the teacher's own compiled-schema caching
// pattern (pkg/parser/schema.go's getCompiledMainWorkflowSchema).
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(settingsSchemaJSON), &doc); err != nil {
			compileSchemaErr = fmt.Errorf("config: parsing embedded settings schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		const schemaURL = "https://crackerjack.invalid/settings-schema.json"
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileSchemaErr = fmt.Errorf("config: registering settings schema: %w", err)
			return
		}
		compiledSchema, compileSchemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileSchemaErr
}

// validate checks settings against the embedded JSON schema before
// Load returns it, guaranteeing every frozen Settings value satisfies
// the schema's invariants (SPEC_FULL.md §2, "Configuration").
func validate(settings Settings) error {
	schema, err := getCompiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("config: marshaling settings for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: re-decoding settings for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		configLog.Printf("settings failed schema validation: %v", err)
		return fmt.Errorf("config: settings failed schema validation: %w", err)
	}
	return nil
}
