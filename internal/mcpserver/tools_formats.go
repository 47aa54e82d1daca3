package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type formatsInput struct{}

type formatInfo struct {
	Format     string   `json:"format"`
	Versions   []string `json:"versions,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	Read       bool     `json:"read"`
	Write      bool     `json:"write"`
}

type formatsOutput struct {
	Formats []formatInfo `json:"formats"`
}

func (s *Server) handleFormats(_ context.Context, _ *mcp.CallToolRequest, _ formatsInput) (*mcp.CallToolResult, formatsOutput, error) {
	caps := s.conv.Registry().Capabilities()
	output := formatsOutput{Formats: make([]formatInfo, 0, len(caps))}
	for _, c := range caps {
		output.Formats = append(output.Formats, formatInfo{
			Format:     string(c.Format),
			Versions:   c.Versions,
			Extensions: c.Extensions,
			Read:       c.Read,
			Write:      c.Write,
		})
	}
	return nil, output, nil
}
