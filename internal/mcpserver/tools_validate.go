package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/validator"
)

type validateInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The specification document to validate against"`
	Target          string    `json:"target"                     jsonschema:"Base URL of the running service, e.g. http://localhost:8080"`
	SkipStatus      bool      `json:"skip_status,omitempty"      jsonschema:"Do not check the status code"`
	SkipHeaders     bool      `json:"skip_headers,omitempty"     jsonschema:"Do not check response headers"`
	SkipBody        bool      `json:"skip_body,omitempty"        jsonschema:"Do not check the response body"`
	IncludeResponse bool      `json:"include_response,omitempty" jsonschema:"Return the captured response"`
	Offset          int       `json:"offset,omitempty"           jsonschema:"Skip the first N violations (for pagination)"`
	Limit           int       `json:"limit,omitempty"            jsonschema:"Maximum number of violations to return (default 100)"`
}

type violationOutput struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

type capturedOutput struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
}

type validateOutput struct {
	Name           string            `json:"name"`
	Valid          bool              `json:"valid"`
	StatusCode     int               `json:"status_code"`
	DurationMS     int64             `json:"duration_ms"`
	ViolationCount int               `json:"violation_count"`
	Returned       int               `json:"returned"`
	Violations     []violationOutput `json:"violations,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	Response       *capturedOutput   `json:"response,omitempty"`
}

// checkOptions are the validator options shared by the validate tools.
func checkOptions(skipStatus, skipHeaders, skipBody bool) []validator.Option {
	return []validator.Option{
		validator.WithSkipStatusValidation(skipStatus),
		validator.WithSkipHeaderValidation(skipHeaders),
		validator.WithSkipBodyValidation(skipBody),
	}
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	if input.Target == "" {
		return errResult(fmt.Errorf("target is required")), validateOutput{}, nil
	}

	parseResult, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	handler, err := validator.ProxyHandler(input.Target, targetClient())
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	v, err := validator.New(checkOptions(input.SkipStatus, input.SkipHeaders, input.SkipBody)...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	result, err := v.Validate(ctx, parseResult.Spec, handler)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Name:           result.Name(),
		Valid:          result.Valid(),
		StatusCode:     result.Captured.StatusCode,
		DurationMS:     result.Duration.Milliseconds(),
		ViolationCount: len(result.Violations),
		Violations:     violationOutputs(result.Violations),
		Warnings:       parseResult.Warnings,
	}
	output.Violations = paginate(output.Violations, input.Offset, input.Limit)
	output.Returned = len(output.Violations)

	if input.IncludeResponse {
		output.Response = &capturedOutput{
			StatusCode: result.Captured.StatusCode,
			Headers:    result.Captured.Headers,
			Body:       result.Captured.Body,
		}
	}
	return nil, output, nil
}

func violationOutputs(vs []validator.Violation) []violationOutput {
	out := makeSlice[violationOutput](len(vs))
	for _, v := range vs {
		out = append(out, violationOutput{Location: string(v.Location), Description: v.Description})
	}
	return out
}
