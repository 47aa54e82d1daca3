package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"
)

// Output formats of the listing commands.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutputFormat(format string) error {
	if format != outputText && format != outputJSON && format != outputYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, outputText, outputJSON, outputYAML)
	}
	return nil
}

// writeStructured writes data as JSON or YAML.
func writeStructured(w io.Writer, data any, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case outputJSON:
		out, err = json.MarshalIndent(data, "", "  ")
		out = append(out, '\n')
	case outputYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}
