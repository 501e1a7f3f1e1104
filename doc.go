// Package restspec validates HTTP handlers against declarative request/response
// specifications.
//
// A specification describes one exchange: the request to send (method, URL,
// headers, body) and the response the handler is expected to produce (status
// code, headers, body). restspec drives an [net/http.Handler] with the
// synthetic request, captures what the handler writes, and reports every
// discrepancy it finds instead of stopping at the first one.
//
// # Packages
//
//   - parser: Load specifications from JSON, YAML, or txtar suite archives
//   - validator: Build requests, capture responses, compare, and collect violations
//   - formatter: Canonical JSON formatting used for body comparison
//   - specerrors: Structured error types for errors.Is/errors.As
//
// # Quick Start
//
// Validate a handler from a test:
//
//	import (
//		"github.com/erraggy/restspec/parser"
//		"github.com/erraggy/restspec/validator"
//	)
//
//	func TestEcho(t *testing.T) {
//		parsed, err := parser.ParseWithOptions(parser.WithFilePath("testdata/echo.json"))
//		require.NoError(t, err)
//
//		v, err := validator.New()
//		require.NoError(t, err)
//		result, err := v.Validate(context.Background(), parsed.Spec, echoHandler)
//		require.NoError(t, err)
//		result.AssertNoViolations(t)
//	}
//
// A specification document looks like:
//
//	{
//	  "url": "/echo?message=hello",
//	  "request": { "method": "GET" },
//	  "response": {
//	    "statusCode": 200,
//	    "headers": { "Content-Type": "application/json" },
//	    "body": "{ \"message\": \"hello\" }"
//	  }
//	}
//
// # Command Line
//
// The restspec command validates specifications against a running service:
//
//	restspec validate --target http://localhost:8080 specs/
//
// See cmd/restspec for the full command reference.
package restspec
