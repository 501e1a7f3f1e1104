package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restspec/validator"
)

type validateSuiteInput struct {
	Suite       suiteInput `json:"suite"                  jsonschema:"The suite of specification documents"`
	Target      string     `json:"target"                 jsonschema:"Base URL of the running service, e.g. http://localhost:8080"`
	SkipStatus  bool       `json:"skip_status,omitempty"  jsonschema:"Do not check status codes"`
	SkipHeaders bool       `json:"skip_headers,omitempty" jsonschema:"Do not check response headers"`
	SkipBody    bool       `json:"skip_body,omitempty"    jsonschema:"Do not check response bodies"`
	FailedOnly  *bool      `json:"failed_only,omitempty"  jsonschema:"Only list failing specifications (default true)"`
	Offset      int        `json:"offset,omitempty"       jsonschema:"Skip the first N listed specifications (for pagination)"`
	Limit       int        `json:"limit,omitempty"        jsonschema:"Maximum number of specifications to list (default 100)"`
}

type suiteSpecOutput struct {
	Name       string            `json:"name"`
	Valid      bool              `json:"valid"`
	StatusCode int               `json:"status_code"`
	Violations []violationOutput `json:"violations,omitempty"`
}

type validateSuiteOutput struct {
	Name     string            `json:"name"`
	Valid    bool              `json:"valid"`
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Errors   []string          `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Returned int               `json:"returned"`
	Results  []suiteSpecOutput `json:"results,omitempty"`
}

func handleValidateSuite(ctx context.Context, _ *mcp.CallToolRequest, input validateSuiteInput) (*mcp.CallToolResult, validateSuiteOutput, error) {
	if input.Target == "" {
		return errResult(fmt.Errorf("target is required")), validateSuiteOutput{}, nil
	}
	failedOnly := true
	if input.FailedOnly != nil {
		failedOnly = *input.FailedOnly
	}

	suite, err := input.Suite.resolve()
	if err != nil {
		return errResult(err), validateSuiteOutput{}, nil
	}

	handler, err := validator.ProxyHandler(input.Target, targetClient())
	if err != nil {
		return errResult(err), validateSuiteOutput{}, nil
	}
	v, err := validator.New(checkOptions(input.SkipStatus, input.SkipHeaders, input.SkipBody)...)
	if err != nil {
		return errResult(err), validateSuiteOutput{}, nil
	}

	result, err := v.ValidateSuite(ctx, suite, handler)
	if err != nil {
		return errResult(err), validateSuiteOutput{}, nil
	}

	output := validateSuiteOutput{
		Name:     result.Name,
		Valid:    result.Valid(),
		Total:    suite.Len(),
		Passed:   result.Passed(),
		Failed:   result.Failed(),
		Warnings: suite.Warnings(),
	}
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, sanitizeError(e))
	}

	var listed []suiteSpecOutput
	for _, r := range result.Results {
		if failedOnly && r.Valid() {
			continue
		}
		listed = append(listed, suiteSpecOutput{
			Name:       r.Name(),
			Valid:      r.Valid(),
			StatusCode: r.Captured.StatusCode,
			Violations: violationOutputs(r.Violations),
		})
	}
	output.Results = paginate(listed, input.Offset, input.Limit)
	output.Returned = len(output.Results)

	return nil, output, nil
}
