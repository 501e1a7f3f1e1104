// Package validator checks that an http.Handler honors a contract
// specification.
//
// One validation cycle builds the request a specification describes, runs
// the handler synchronously against a [Capture], and compares the captured
// response with the expected one. Every discrepancy is collected as a
// [Violation]; the comparison never stops at the first failure.
//
// # Quick Start
//
//	parsed, err := parser.ParseWithOptions(parser.WithFilePath("specs/get-user.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, _ := validator.New()
//	result, err := v.Validate(ctx, parsed.Spec, handler)
//	if err != nil {
//		log.Fatal(err) // the specification itself is unusable
//	}
//	for _, d := range result.Descriptions() {
//		fmt.Println(d)
//	}
//
// In tests, fail with every violation at once:
//
//	result.AssertNoViolations(t)
//
// # Checks
//
// Checks run in a fixed order: status code, then each expected header in
// document order, then the body. Violations read like:
//
//	Status code should have been 302 but was 405
//	Expected header 'luke' set to 'landWalker', but was 'skywalker'
//	Expected header 'jalapeno' set to 'poppers', but was 'null'
//	Expected body 'Hello' but was 'Goodbye'
//
// Header names are matched exactly first, then in Go canonical form.
// Bodies are compared as JSON when the expected Content-Type is JSON, when
// no Content-Type is expected and the captured one is JSON, or when neither
// is declared and both bodies parse as JSON. JSON bodies are compared in the
// canonical form produced by the formatter package; a body that does not
// parse is reported on its own:
//
//	expected: Failed to normalize JSON: '{ blah '
//	actual  : Failed to normalize JSON: ''
//
// # Handlers
//
// Any http.Handler can be validated. [MethodHandler] dispatches by method
// and answers unknown methods with 405. [ProxyHandler] forwards to a running
// service, so the same specifications can check a live deployment.
package validator
