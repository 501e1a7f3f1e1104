package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/parser"
)

type parseInput struct {
	Spec specInput `json:"spec"           jsonschema:"The specification document to parse"`
	Full bool      `json:"full,omitempty" jsonschema:"Return the normalized document in its source format"`
}

type headerOutput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type parseOutput struct {
	Name            string         `json:"name"`
	Method          string         `json:"method"`
	URL             string         `json:"url"`
	RequestHeaders  []headerOutput `json:"request_headers,omitempty"`
	HasRequestBody  bool           `json:"has_request_body"`
	StatusCode      int            `json:"status_code"`
	ResponseHeaders []headerOutput `json:"response_headers,omitempty"`
	HasResponseBody bool           `json:"has_response_body"`
	Format          string         `json:"format"`
	Errors          []string       `json:"errors,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	FullDocument    string         `json:"full_document,omitempty"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	spec := result.Spec
	output := parseOutput{
		Name:            spec.Name,
		Method:          spec.Request.Method,
		URL:             spec.URL,
		RequestHeaders:  headerOutputs(spec.Request.Headers),
		HasRequestBody:  spec.Request.Body != nil,
		StatusCode:      spec.Response.StatusCode,
		ResponseHeaders: headerOutputs(spec.Response.Headers),
		HasResponseBody: spec.Response.Body != nil,
		Format:          string(result.SourceFormat),
		Warnings:        result.Warnings,
	}
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, sanitizeError(e))
	}

	if input.Full {
		var data []byte
		switch result.SourceFormat {
		case parser.SourceFormatJSON:
			data, err = parser.EncodeJSON(spec)
		default:
			data, err = parser.EncodeYAML(spec)
		}
		if err != nil {
			return errResult(err), parseOutput{}, nil
		}
		output.FullDocument = string(data)
	}

	return nil, output, nil
}

func headerOutputs(h parser.Headers) []headerOutput {
	out := makeSlice[headerOutput](len(h))
	for _, hdr := range h {
		out = append(out, headerOutput{Name: hdr.Name, Value: hdr.Value})
	}
	return out
}
