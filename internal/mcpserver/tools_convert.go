package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/registry"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type convertInput struct {
	Document documentInput `json:"document"         jsonschema:"The API description to convert"`
	Target   string        `json:"target"           jsonschema:"Target format (swagger\\, raml\\, internal\\, postman\\, or api-blueprint)"`
	Output   string        `json:"output,omitempty" jsonschema:"File path to write the converted document. If omitted the document is returned inline."`
}

type convertOutput struct {
	SourceFormat  string `json:"source_format"`
	SourceVersion string `json:"source_version,omitempty"`
	TargetFormat  string `json:"target_format"`
	TargetVersion string `json:"target_version,omitempty"`
	Title         string `json:"title,omitempty"`
	RequestCount  int    `json:"request_count"`
	WrittenTo     string `json:"written_to,omitempty"`
	Document      string `json:"document,omitempty"`
}

func (s *Server) handleConvert(ctx context.Context, _ *mcp.CallToolRequest, input convertInput) (*mcp.CallToolResult, convertOutput, error) {
	if input.Target == "" {
		return errResult(fmt.Errorf("target format is required")), convertOutput{}, nil
	}
	target, err := registry.ParseFormat(input.Target)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	// fail on an unserializable target before loading anything
	if _, err := s.conv.Registry().SerializerFor(target); err != nil {
		return errResult(err), convertOutput{}, nil
	}

	loaded, err := s.load(ctx, input.Document)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}
	result, err := s.conv.Serialize(loaded, target)
	if err != nil {
		return errResult(err), convertOutput{}, nil
	}

	output := convertOutput{
		SourceFormat:  string(result.Source.Format),
		SourceVersion: result.Source.Version,
		TargetFormat:  string(result.Target.Format),
		TargetVersion: result.Target.Version,
		Title:         result.Context.Info.Title,
		RequestCount:  len(result.Context.Group.Requests()),
	}

	if input.Output != "" {
		path, err := pathutil.SanitizeOutputPath(input.Output)
		if err != nil {
			return errResult(err), convertOutput{}, nil
		}
		if err := os.WriteFile(path, result.Output, 0o600); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), convertOutput{}, nil
		}
		output.WrittenTo = path
	} else {
		output.Document = string(result.Output)
	}

	return nil, output, nil
}
