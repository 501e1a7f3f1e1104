// Package parser loads HTTP contract specifications.
//
// A specification names one request (method, URL, headers, body) and the
// response a handler is expected to produce for it (status code, headers,
// body). Documents may be written in JSON or YAML:
//
//	{
//	  "name": "get-user",
//	  "url": "/users?id=7",
//	  "request": { "method": "GET", "headers": { "Accept": "application/json" } },
//	  "response": {
//	    "statusCode": 200,
//	    "headers": { "Content-Type": "application/json" },
//	    "body": "{ \"id\": 7 }"
//	  }
//	}
//
// The keys "header" and "representation" are accepted as aliases of
// "headers" and "body". A body may also be written as an inline JSON or
// YAML value, in which case it is rendered as compact JSON. An absent
// response.statusCode means 200; absent headers or body mean "do not check".
// Header order is kept exactly as written.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(parser.WithFilePath("specs/get-user.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasErrors() {
//		log.Fatal(result.Errors[0])
//	}
//	fmt.Println(result.Spec)
//
// Or create a reusable Parser instance:
//
//	p := parser.New()
//	a, _ := p.Parse("specs/get-user.json")
//	b, _ := p.Parse("https://contracts.example.com/create-user.yaml")
//
// # Suites
//
// [Parser.ParseSuite] loads many specifications at once from a directory tree
// (every .json, .yaml, .yml, and .txtar file, in lexical order) or from a
// single txtar archive:
//
//	Users API contract.
//	-- get-user.json --
//	{ "url": "/users/7", "request": { "method": "GET" } }
//	-- delete-user.yaml --
//	url: /users/7
//	request: {method: DELETE}
//	response: {statusCode: 204}
//
// # Tolerated Irregularities
//
// Trailing content after a complete JSON document (such as a stray closing
// brace) and unknown keys are ignored. Each is recorded in
// ParseResult.Warnings and logged at warn level.
package parser
