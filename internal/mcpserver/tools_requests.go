package mcpserver

import (
	"context"
	"strings"

	"github.com/erraggy/apiflow/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listRequestsInput struct {
	Document documentInput `json:"document"           jsonschema:"The API description to load"`
	Method   string        `json:"method,omitempty"   jsonschema:"Only requests with this HTTP method"`
	Group    string        `json:"group,omitempty"    jsonschema:"Only requests below this top-level group"`
	GroupBy  string        `json:"group_by,omitempty" jsonschema:"Group results and return counts: method or group"`
	Offset   int           `json:"offset,omitempty"   jsonschema:"Skip the first N results"`
	Limit    int           `json:"limit,omitempty"    jsonschema:"Maximum number of results"`
}

type requestSummary struct {
	Method string   `json:"method"`
	URL    string   `json:"url"`
	Name   string   `json:"name,omitempty"`
	Groups []string `json:"groups,omitempty"`
	Auth   string   `json:"auth,omitempty"`
}

type listRequestsOutput struct {
	Title    string           `json:"title,omitempty"`
	Format   string           `json:"format"`
	Total    int              `json:"total"`
	Returned int              `json:"returned"`
	Requests []requestSummary `json:"requests,omitempty"`
	Groups   []groupCount     `json:"groups,omitempty"`
}

func (s *Server) handleListRequests(ctx context.Context, _ *mcp.CallToolRequest, input listRequestsInput) (*mcp.CallToolResult, listRequestsOutput, error) {
	if err := validateGroupBy(input.GroupBy, []string{"method", "group"}); err != nil {
		return errResult(err), listRequestsOutput{}, nil
	}

	result, err := s.load(ctx, input.Document)
	if err != nil {
		return errResult(err), listRequestsOutput{}, nil
	}

	var matched []requestSummary
	result.Context.Group.Walk(func(path []string, r model.Request) {
		if input.Method != "" && !strings.EqualFold(r.Method, input.Method) {
			return
		}
		if input.Group != "" && (len(path) == 0 || path[0] != input.Group) {
			return
		}
		summary := requestSummary{
			Method: strings.ToUpper(r.Method),
			URL:    r.URL,
			Name:   r.Name,
			Groups: path,
		}
		if a, ok := r.ActiveAuth(); ok {
			summary.Auth = string(a.Type())
		}
		matched = append(matched, summary)
	})

	output := listRequestsOutput{
		Title:  result.Context.Info.Title,
		Format: result.Source.String(),
		Total:  len(matched),
	}

	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, func(r requestSummary) string {
			if strings.EqualFold(input.GroupBy, "method") {
				return r.Method
			}
			if len(r.Groups) == 0 {
				return ""
			}
			return r.Groups[0]
		})
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	output.Requests = makeSlice[requestSummary](len(page))
	output.Requests = append(output.Requests, page...)
	output.Returned = len(page)
	return nil, output, nil
}
