package validation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"ie-tracker-report/internal/models"
)

// LoadSchema loads a JSON schema from a file
func LoadSchema(schemaPath string) (*gojsonschema.Schema, error) {
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + schemaPath)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return schema, nil
}

// ValidateAggregationJSON validates an aggregation JSON string against a schema
func ValidateAggregationJSON(aggregationJSON string, schema *gojsonschema.Schema) error {
	documentLoader := gojsonschema.NewStringLoader(aggregationJSON)
	result, err := schema.Validate(documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate: %w", err)
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// ValidateAndParseAggregation validates and unmarshals an aggregation JSON string
func ValidateAndParseAggregation(aggregationJSON string, schemaPath string) (*models.AggregationResult, error) {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	schema, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := ValidateAggregationJSON(aggregationJSON, schema); err != nil {
		return nil, err
	}

	var agg models.AggregationResult
	if err := json.Unmarshal([]byte(aggregationJSON), &agg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &agg, nil
}
