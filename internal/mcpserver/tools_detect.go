package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type detectInput struct {
	Document documentInput `json:"document" jsonschema:"The API description to score"`
}

type formatScore struct {
	Format  string  `json:"format"`
	Version string  `json:"version,omitempty"`
	Score   float64 `json:"score"`
	Match   bool    `json:"match"`
}

type detectOutput struct {
	Detected string        `json:"detected,omitempty"`
	Scores   []formatScore `json:"scores"`
}

func (s *Server) handleDetect(ctx context.Context, _ *mcp.CallToolRequest, input detectInput) (*mcp.CallToolResult, detectOutput, error) {
	content, err := input.Document.text(ctx, s.conv)
	if err != nil {
		return errResult(err), detectOutput{}, nil
	}

	scores := s.conv.Registry().Scores(content)
	output := detectOutput{Scores: make([]formatScore, 0, len(scores))}
	for _, sc := range scores {
		output.Scores = append(output.Scores, formatScore{
			Format:  string(sc.Descriptor.Format),
			Version: sc.Descriptor.Version,
			Score:   sc.Score,
			Match:   sc.Match,
		})
		if sc.Match && output.Detected == "" {
			output.Detected = sc.Descriptor.String()
		}
	}
	return nil, output, nil
}
