// Package specerrors provides structured error types for the restspec library.
//
// Import path: github.com/erraggy/restspec/specerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell a specification that cannot be turned into a request
// apart from a document that cannot be decoded or an invalid option.
//
// Contract violations (a handler producing the wrong status, header, or body) are
// never reported through these types. They are collected in a validation result.
//
// # Error Types
//
//   - [SpecificationError]: the specification cannot be turned into a request
//     (missing url or request.method, malformed URL)
//   - [ParseError]: a specification document could not be decoded
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrSpecification]: Matches any [SpecificationError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	result, err := v.Validate(ctx, spec, handler)
//	if err != nil {
//	    var specErr *specerrors.SpecificationError
//	    if errors.As(err, &specErr) {
//	        log.Printf("bad spec field %s: %s", specErr.Field, specErr.Message)
//	    }
//	}
package specerrors
