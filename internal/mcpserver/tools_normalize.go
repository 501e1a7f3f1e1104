package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/formatter"
)

type normalizeInput struct {
	JSON    string  `json:"json"              jsonschema:"The JSON text to normalize"`
	Compare *string `json:"compare,omitempty" jsonschema:"A second JSON text to compare with json after normalization"`
}

type normalizeOutput struct {
	Valid            bool   `json:"valid"`
	Canonical        string `json:"canonical,omitempty"`
	Error            string `json:"error,omitempty"`
	CompareValid     *bool  `json:"compare_valid,omitempty"`
	CompareCanonical string `json:"compare_canonical,omitempty"`
	CompareError     string `json:"compare_error,omitempty"`
	Equivalent       *bool  `json:"equivalent,omitempty"`
}

// handleNormalizeJSON reports parse failures in the output rather than as a
// tool error, so that both sides of a comparison are always described.
func handleNormalizeJSON(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	if err := checkInlineSize(input.JSON); err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	var output normalizeOutput
	canonical, err := formatter.Normalize(input.JSON)
	if err != nil {
		output.Error = err.Error()
	} else {
		output.Valid = true
		output.Canonical = canonical
	}

	if input.Compare == nil {
		return nil, output, nil
	}
	if err := checkInlineSize(*input.Compare); err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	other, err := formatter.Normalize(*input.Compare)
	compareValid := err == nil
	output.CompareValid = &compareValid
	if err != nil {
		output.CompareError = err.Error()
	} else {
		output.CompareCanonical = other
	}
	if output.Valid && compareValid {
		equivalent := canonical == other
		output.Equivalent = &equivalent
	}
	return nil, output, nil
}
